package text

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/script"
	"golang.org/x/text/unicode/norm"
)

func mustBuild(t *testing.T, def rules.Definition) *rules.RuleSet {
	t.Helper()
	rs, err := rules.Build(def)
	require.NoError(t, err)
	return rs
}

func TestConverter_Convert(t *testing.T) {
	dictionary := rules.Definition{
		Phrases: map[string]string{
			"오류가 발생했습니다":    "An error occurred",
			"오류":            "error",
			"잔액이 ":          "",
			"회원을 찾을 수 없습니다": "Member not found",
		},
		Patterns: []rules.Pattern{
			{Match: `(\d+)개`, Replace: `$1 items`},
		},
	}

	tests := []struct {
		name             string
		content          string
		def              rules.Definition
		passes           int
		want             string
		wantChanged      bool
		wantReplacements int
		wantPasses       int
		wantConverged    bool
		wantResidual     []ResidualSpan
	}{
		{
			name:             "longest_phrase_first",
			content:          "오류가 발생했습니다",
			def:              dictionary,
			want:             "An error occurred",
			wantChanged:      true,
			wantReplacements: 1,
			wantPasses:       1,
			wantConverged:    true,
		},
		{
			name:             "phrase_inside_code",
			content:          `throw NotFoundException("회원을 찾을 수 없습니다")`,
			def:              dictionary,
			want:             `throw NotFoundException("Member not found")`,
			wantChanged:      true,
			wantReplacements: 1,
			wantPasses:       1,
			wantConverged:    true,
		},
		{
			name:          "pure_ascii_is_noop",
			content:       "fun doThing(): Int { return 1 }",
			def:           rules.Definition{Phrases: map[string]string{"Int": "Long", "fun": "def"}},
			want:          "fun doThing(): Int { return 1 }",
			wantChanged:   false,
			wantPasses:    0,
			wantConverged: true,
		},
		{
			name:             "residual_reported",
			content:          "val a = 1\nval msg = \"잔액이 부족합니다 USDC\"\nval n = \"3개\"",
			def:              dictionary,
			want:             "val a = 1\nval msg = \"부족합니다 USDC\"\nval n = \"3 items\"",
			wantChanged:      true,
			wantReplacements: 2,
			wantPasses:       1,
			wantConverged:    false,
			wantResidual: []ResidualSpan{
				{Line: 2, Text: `val msg = "부족합니다 USDC"`, Runs: []string{"부족합니다"}},
			},
		},
		{
			name:             "no_rule_matches",
			content:          "// 주석",
			def:              dictionary,
			want:             "// 주석",
			wantChanged:      false,
			wantReplacements: 0,
			wantPasses:       1,
			wantConverged:    true,
			wantResidual:     []ResidualSpan{{Line: 1, Text: "// 주석", Runs: []string{"주석"}}},
		},
		{
			name:    "passes_run_until_fixed_point",
			content: "가나다",
			def: rules.Definition{Phrases: map[string]string{
				"나다": "다",
				"가다": "done",
			}},
			passes:           3,
			want:             "done",
			wantChanged:      true,
			wantReplacements: 2,
			wantPasses:       2,
			wantConverged:    true,
		},
		{
			name:    "single_pass_leaves_exposed_phrase",
			content: "가나다",
			def: rules.Definition{Phrases: map[string]string{
				"나다": "다",
				"가다": "done",
			}},
			passes:           1,
			want:             "가다",
			wantChanged:      true,
			wantReplacements: 1,
			wantPasses:       1,
			wantConverged:    false,
			wantResidual:     []ResidualSpan{{Line: 1, Text: "가다", Runs: []string{"가다"}}},
		},
		{
			name:    "stops_at_fixed_point_with_residue",
			content: "가 나",
			def: rules.Definition{Phrases: map[string]string{
				"가": "ga",
			}},
			passes:           5,
			want:             "ga 나",
			wantChanged:      true,
			wantReplacements: 1,
			wantPasses:       2,
			wantConverged:    true,
			wantResidual:     []ResidualSpan{{Line: 1, Text: "ga 나", Runs: []string{"나"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConverter(mustBuild(t, tt.def), Options{MaxPasses: tt.passes})
			result := c.Convert(tt.content)

			require.NotNil(t, result)
			assert.Equal(t, tt.want, result.NewText)
			assert.Equal(t, tt.wantChanged, result.Changed)
			assert.Equal(t, tt.wantReplacements, result.Replacements)
			assert.Equal(t, tt.wantPasses, result.Passes)
			assert.Equal(t, tt.wantConverged, result.Converged)
			assert.Equal(t, tt.wantResidual, result.Residual)
		})
	}
}

func TestConverter_ApplyOnce_NotRecursive(t *testing.T) {
	// A: X -> YZ must run over the whole text before B: Z -> W, and B must
	// not feed its own output back into itself
	rs := mustBuild(t, rules.Definition{Patterns: []rules.Pattern{
		{Match: "X", Replace: "YZ"},
		{Match: "Z", Replace: "ZZ"},
	}})
	c := NewConverter(rs, Options{})

	got, n := c.ApplyOnce("X")
	assert.Equal(t, "YZZ", got)
	assert.Equal(t, 2, n)

	rs = mustBuild(t, rules.Definition{Patterns: []rules.Pattern{
		{Match: "X", Replace: "YZ"},
		{Match: "Z", Replace: "W"},
	}})
	got, n = NewConverter(rs, Options{}).ApplyOnce("X")
	assert.Equal(t, "YW", got)
	assert.Equal(t, 2, n)
}

func TestConverter_ApplyOnce_LiteralOutputIsInert(t *testing.T) {
	rs := mustBuild(t, rules.Definition{Phrases: map[string]string{
		"가": "가가",
	}})

	got, n := NewConverter(rs, Options{}).ApplyOnce("가 가")
	assert.Equal(t, "가가 가가", got)
	assert.Equal(t, 2, n)
}

func TestConverter_Idempotent(t *testing.T) {
	rs := mustBuild(t, rules.Definition{
		Phrases:   map[string]string{"인증이 필요합니다": "Authentication is required", "인증": "auth"},
		Particles: []string{"는", "가"},
		Patterns:  []rules.Pattern{{Match: `(\d+)분`, Replace: `$1 minutes`}},
	})
	c := NewConverter(rs, Options{MaxPasses: 3})

	first := c.Convert(`require(token != null) { "인증이 필요합니다" } // 5분`)
	require.True(t, first.Changed)
	require.False(t, c.DetectTargetScript(first.NewText))

	second := c.Convert(first.NewText)
	assert.False(t, second.Changed)
	assert.Equal(t, first.NewText, second.NewText)
	assert.Equal(t, 0, second.Passes)
}

func TestConverter_Deterministic(t *testing.T) {
	rs := mustBuild(t, rules.Definition{
		Phrases: map[string]string{
			"질문을 찾을 수 없습니다": "Question not found",
			"질문":            "question",
			"찾을 수 없습니다":     "not found",
			"없습니다":          "",
		},
		Particles: []string{"을", "를"},
	})
	c := NewConverter(rs, Options{MaxPasses: 2})
	input := "// 질문을 찾을 수 없습니다\n// 질문를 검색\nval x = \"찾을 수 없습니다\""

	want := c.Convert(input)

	var wg sync.WaitGroup
	results := make([]*ConversionResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Convert(input)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestConverter_Normalize(t *testing.T) {
	rs := mustBuild(t, rules.Definition{Phrases: map[string]string{"확인": "confirm"}})
	decomposed := "// " + norm.NFD.String("확인")

	withoutNormalize := NewConverter(rs, Options{}).Convert(decomposed)
	assert.False(t, withoutNormalize.Changed)

	withNormalize := NewConverter(rs, Options{Normalize: true}).Convert(decomposed)
	assert.True(t, withNormalize.Changed)
	assert.Equal(t, "// confirm", withNormalize.NewText)
}

func TestConverter_Counts(t *testing.T) {
	rs := mustBuild(t, rules.Definition{Phrases: map[string]string{"하나": "one", "둘": "two"}})
	result := NewConverter(rs, Options{}).Convert("하나 둘 셋 넷")

	assert.Equal(t, 4, result.RunsBefore)
	assert.Equal(t, 2, result.RunsAfter)
	assert.Equal(t, 2, result.RunsRemoved())
	assert.Equal(t, 2, result.Replacements)
}

func TestConverter_CustomScript(t *testing.T) {
	hiragana, err := script.Lookup("hiragana")
	require.NoError(t, err)

	rs := mustBuild(t, rules.Definition{Phrases: map[string]string{"ありがとう": "thanks"}})
	c := NewConverter(rs, Options{Script: hiragana})

	assert.Equal(t, hiragana, c.Script())
	assert.Equal(t, 1, c.MaxPasses())

	result := c.Convert(`say("ありがとう")`)
	assert.Equal(t, `say("thanks")`, result.NewText)

	// Hangul is not the target here, so it is never touched
	result = c.Convert(`say("감사")`)
	assert.False(t, result.Changed)
}

func TestConvert_Shorthand(t *testing.T) {
	rs := mustBuild(t, rules.Definition{Phrases: map[string]string{
		"오류가 발생했습니다": "An error occurred",
		"오류":         "error",
	}})

	result := Convert("오류가 발생했습니다", rs, 1)
	assert.Equal(t, "An error occurred", result.NewText)
	assert.True(t, result.Changed)

	result = Convert("fun doThing(): Int { return 1 }", rs, 1)
	assert.False(t, result.Changed)
}
