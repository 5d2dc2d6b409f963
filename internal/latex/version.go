package latex

// TemplateVersion identifies the revision of the generated LaTeX structure.
// Bump it whenever the template changes (new commands, fields, layout); it is
// stored with each generated PDF so old artifacts can be traced to the
// template that produced them.
const TemplateVersion = "2.0.0"
