package in

import (
	"context"

	"cpt/internal/modules/training/dto"
	trainingin "cpt/internal/modules/training/port/in"
)

type CLIHandler struct {
	usecase trainingin.Usecase
}

func NewCLIHandler(usecase trainingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Solve plays moves against one puzzle and ends the session. It stops at
// the first error; outcomes so far are returned with it.
func (h CLIHandler) Solve(ctx context.Context, category string, start int, moves []string) (dto.SnapshotOutput, []dto.OutcomeOutput, dto.EndOutput, error) {
	snap, err := h.usecase.Start(ctx, dto.StartInput{Category: category, Start: start})
	if err != nil {
		return dto.SnapshotOutput{}, nil, dto.EndOutput{}, err
	}
	var outcomes []dto.OutcomeOutput
	for _, move := range moves {
		outcome, err := h.usecase.Submit(ctx, dto.SubmitInput{Move: move})
		if err != nil {
			end, _ := h.usecase.End(ctx)
			return snap, outcomes, end, err
		}
		outcomes = append(outcomes, outcome)
	}
	end, err := h.usecase.End(ctx)
	return snap, outcomes, end, err
}
