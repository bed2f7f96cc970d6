package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/salvo/internal/domain/config"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// ErrNonInteractive is returned when confirmation is required but prompts are disabled
var ErrNonInteractive = errors.New("confirmation required but running in non-interactive mode (pass --yes to proceed)")

// ConfirmerAdapter asks yes/no questions on the terminal
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
}

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig) *ConfirmerAdapter {
	return &ConfirmerAdapter{config: cfg}
}

// Confirm returns true only when the operator answers yes
func (c *ConfirmerAdapter) Confirm(ctx context.Context, message string) (bool, error) {
	if c.config.NonInteractive {
		return false, ErrNonInteractive
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	default:
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
}

// Ensure ConfirmerAdapter implements Confirmer
var _ usecase.Confirmer = (*ConfirmerAdapter)(nil)
