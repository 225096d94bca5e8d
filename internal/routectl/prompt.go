package routectl

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// SurveyPrompter asks the operator on the terminal. Prompts default to the
// safe answer, so hitting enter declines.
type SurveyPrompter struct{}

func (SurveyPrompter) ConfirmSoftFailure(field, reason string) bool {
	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Warning: %s. Continue anyway?", reason),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false
	}
	return ok
}

const (
	menuBackup    = "back up the existing file, then write the new configuration"
	menuOverwrite = "overwrite in place"
	menuView      = "show the existing configuration and abort"
	menuAbort     = "abort, change nothing"
)

// SurveyResolver presents the four-choice menu when a domain already has a
// configuration file.
type SurveyResolver struct{}

func (SurveyResolver) ResolveExisting(domain, path string) (ConflictChoice, error) {
	var answer string
	prompt := &survey.Select{
		Message: fmt.Sprintf("%s already exists. What now?", path),
		Options: []string{menuBackup, menuOverwrite, menuView, menuAbort},
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return 0, err
	}
	switch answer {
	case menuBackup:
		return ChoiceBackup, nil
	case menuOverwrite:
		return ChoiceOverwrite, nil
	case menuView:
		return ChoiceView, nil
	case menuAbort:
		return ChoiceAbort, nil
	default:
		return 0, fmt.Errorf("unexpected choice %q", answer)
	}
}

func (SurveyResolver) ShowConfig(content string) {
	fmt.Println(content)
}

// FixedResolver answers the conflict menu with a predetermined choice. Used
// by the wizard, which asks before the pipeline starts, and by tests.
type FixedResolver struct {
	Choice ConflictChoice
	Shown  func(content string)
}

func (f FixedResolver) ResolveExisting(domain, path string) (ConflictChoice, error) {
	if f.Choice == 0 {
		return 0, fmt.Errorf("no conflict choice preselected for %s", domain)
	}
	return f.Choice, nil
}

func (f FixedResolver) ShowConfig(content string) {
	if f.Shown != nil {
		f.Shown(content)
	} else {
		fmt.Println(content)
	}
}

// AutoPrompter answers soft-validation prompts with a recorded decision.
type AutoPrompter struct {
	AllowSoft bool
}

func (a AutoPrompter) ConfirmSoftFailure(field, reason string) bool {
	return a.AllowSoft
}
