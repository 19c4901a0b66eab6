package harness

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"morph/internal/ast"
	"morph/internal/emit"
	"morph/internal/fixer"
	"morph/internal/hygiene"
)

// PrintHygieneEnv enables a hygiene-annotated dump of the actual tree before
// comparison when set to "1". Diagnostic only; never affects the result.
const PrintHygieneEnv = "MORPH_PRINT_HYGIENE"

// TestTransform verifies that tr applied to input yields a program
// equivalent to expected. Equivalence is structural; when only the rendered
// texts agree the case fails unless allowTextOnlyMatch is set, since a
// text-only match can hide latent bugs. A nil return is a pass.
func (t *Tester) TestTransform(input, expected string, tr Transform, allowTextOnlyMatch bool) *Failure {
	actual, fail := t.apply(t.name+".input.js", input, tr)
	if fail != nil {
		return fail
	}
	expectedTree, fail := t.apply(t.name+".expected.js", expected, nil)
	if fail != nil {
		return fail
	}

	if os.Getenv(PrintHygieneEnv) == "1" {
		fmt.Fprintf(t.out, "----- %s (hygiene) -----\n%s", t.name, renderWithScopes(actual))
	}

	actual = hygiene.Resolve(actual)
	actual = fixer.Fix(actual)
	actual = ast.StripSpans(actual, false)

	if ast.Equal(expectedTree, actual) {
		return nil
	}

	actualText := emit.Source(actual)
	expectedText := emit.Source(expectedTree)
	treeDiff := ast.Diff(expectedTree, actual)

	if actualText == expectedText {
		if allowTextOnlyMatch {
			fmt.Fprintf(t.out, "%s: trees differ, rendered code matches (text-only match accepted)\n", t.name)
			return nil
		}
		return &Failure{
			Kind:     KindStructuralMismatch,
			Case:     t.name,
			Msg:      "rendered code matches but tree structure diverges",
			Input:    input,
			Expected: expectedText,
			Actual:   actualText,
			TreeDiff: treeDiff,
		}
	}

	textDiff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expectedText),
		B:        difflib.SplitLines(actualText),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		textDiff = fmt.Sprintf("diff unavailable: %v", err)
	}
	return &Failure{
		Kind:     KindTextualMismatch,
		Case:     t.name,
		Msg:      "transformed code does not match expected code",
		Input:    input,
		Expected: expectedText,
		Actual:   actualText,
		TreeDiff: treeDiff,
		TextDiff: textDiff,
	}
}
