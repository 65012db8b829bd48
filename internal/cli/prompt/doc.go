// Package prompt provides the interactive selection prompts used by the
// installer: a checkbox list ([Prompt.MultiSelect]) and a radio list
// ([Prompt.SingleSelect]).
//
// Both prompts draw a fixed block of N rows below a heading and repaint it
// in place with relative cursor movement (cursor-up, erase-line, rewrite),
// so they compose with whatever the installer printed before and after.
// The terminal is switched to raw mode for the lifetime of a prompt and the
// text cursor is hidden; both are restored through a single release that
// runs on every exit route.
//
// # Keys
//
//	up / k        move the cursor up (wraps)
//	down / j      move the cursor down (wraps)
//	space         toggle the current row (multi only)
//	a             select all, or clear all when everything is selected (multi only)
//	enter         confirm
//	esc / ctrl+c  abort the whole process
//
// Aborting restores the terminal and then calls the prompt's exit function,
// [os.Exit] by default. The prompt call does not return a selection on that
// route.
//
// # Testing
//
// [NewPromptWithIO] takes any reader and writer and accepts options to
// replace the terminal and the exit function, so the key handling and the
// rendered output can be tested without a TTY.
package prompt
