// Package frontmatter parses the YAML header of Markdown skill, command and
// workflow files.
//
// Frontmatter is delimited by lines containing only "---" at the start of
// the file and at the end of the header. The header is decoded into the type
// parameter T and the rest of the file is returned as the body.
//
//	type Meta struct {
//		Name        string `yaml:"name"`
//		Description string `yaml:"description"`
//	}
//
//	meta, body, err := frontmatter.MustParseFile[Meta]("SKILL.md")
//
// Errors wrap [ErrNoFrontmatter], [ErrUnterminated] or [ErrInvalidYAML] and
// can be checked with errors.Is. Both LF and CRLF line endings are accepted.
package frontmatter
