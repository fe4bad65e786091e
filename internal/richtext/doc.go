// Package richtext models inline text runs and the decorations attached to
// them, and folds a run's decoration list into a tree of inline nodes that a
// presentation layer can map onto markup.
//
// Fold order: the first decorator in a run becomes the innermost wrapper and
// the last one becomes the outermost. Content decorators (equation, mention,
// date) replace the run's text with their own leaf before any wrapping
// happens, so [bold, link(u)] yields Anchor(u, Style(bold, Text)).
package richtext
