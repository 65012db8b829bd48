// Package install copies the embedded skill files into an editor's skill,
// command and workflow directories.
//
// Each editor receives SKILL.md from its content flavour, the shared
// references/ tree and, depending on the editor, a slash command or a
// workflow file:
//
//	inst := install.NewInstaller(env)
//	files, err := inst.Install(editor, platform.ScopeProject)
//
// Files are written atomically and left untouched when their content is
// already current, so installing twice is harmless.
package install
