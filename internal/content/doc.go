// Package content holds the skill files compiled into the pds binary.
//
// Each flavour directory carries a SKILL.md for one family of editors, plus
// an optional command.md (slash command) or workflow.md. The references
// directory is shared by every flavour and is installed next to SKILL.md.
package content
