package files

import (
	"context"

	"github.com/cutekitek/rankode-judge/internal/repository/dto"
	"github.com/cutekitek/rankode-judge/internal/repository/models"
)

// LoadTestCases resolves test cases into judge input, fetching data stored by key.
// Cases are returned in the given order.
func LoadTestCases(ctx context.Context, storage Getter, cases []models.TestCase) ([]dto.TestCase, error) {
	result := make([]dto.TestCase, 0, len(cases))
	for _, tc := range cases {
		input, output := tc.InputData, tc.ExpectedOutput
		var err error
		if tc.InputFile != "" {
			if input, err = ReadString(ctx, storage, tc.InputFile); err != nil {
				return nil, err
			}
		}
		if tc.OutputFile != "" {
			if output, err = ReadString(ctx, storage, tc.OutputFile); err != nil {
				return nil, err
			}
		}
		result = append(result, dto.TestCase{Input: input, ExpectedOutput: output})
	}
	return result, nil
}
