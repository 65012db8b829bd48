package content

import (
	"embed"
	"io/fs"
	"path"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/pkg/frontmatter"
)

//go:embed skills
var skillsFS embed.FS

// File names inside a flavour directory.
const (
	SkillFile         = "SKILL.md"
	CommandFile       = "command.md"
	WorkflowFile      = "workflow.md"
	ReferencesDir     = "references"
	ExpectedSkillName = "pds"
)

// ErrUnknownFlavor is returned for a flavour directory that is not embedded.
var ErrUnknownFlavor = errors.New("unknown content flavor")

// Meta is the frontmatter of a SKILL.md.
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
}

// Validate checks the fields every installed skill must carry.
func (m Meta) Validate() error {
	if m.Name != ExpectedSkillName {
		return errors.Newf("skill name %q, want %q", m.Name, ExpectedSkillName)
	}
	if m.Description == "" {
		return errors.New("skill description is empty")
	}
	return nil
}

// FS returns the embedded tree rooted at the flavour directories.
func FS() fs.FS {
	sub, err := fs.Sub(skillsFS, "skills")
	if err != nil {
		panic(err)
	}
	return sub
}

// Flavors returns the embedded flavour directories, excluding references.
func Flavors() []string {
	entries, _ := fs.ReadDir(FS(), ".")
	var out []string
	for _, e := range entries {
		if e.IsDir() && e.Name() != ReferencesDir {
			out = append(out, e.Name())
		}
	}
	return out
}

// Skill returns the SKILL.md bytes for flavor.
func Skill(flavor string) ([]byte, error) {
	data, err := fs.ReadFile(FS(), path.Join(flavor, SkillFile))
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownFlavor, "%s", flavor)
	}
	return data, nil
}

// SkillMeta parses the frontmatter of flavor's SKILL.md.
func SkillMeta(flavor string) (Meta, error) {
	if _, err := Skill(flavor); err != nil {
		return Meta{}, err
	}
	meta, _, err := frontmatter.MustParseFS[Meta](FS(), path.Join(flavor, SkillFile))
	if err != nil {
		return Meta{}, errors.Wrapf(err, "parsing %s/%s", flavor, SkillFile)
	}
	return meta, nil
}

// Has reports whether flavor ships the named file.
func Has(flavor, name string) bool {
	_, err := fs.Stat(FS(), path.Join(flavor, name))
	return err == nil
}

// Version returns the skill version embedded in the universal flavour.
func Version() string {
	meta, err := SkillMeta("universal")
	if err != nil {
		return ""
	}
	return meta.Version
}
