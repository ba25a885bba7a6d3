package script

import (
	"fmt"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScript_Contains(t *testing.T) {
	tests := []struct {
		name   string
		script *Script
		text   string
		want   bool
	}{
		{name: "ascii_only", script: Hangul, text: "fun doThing(): Int { return 1 }", want: false},
		{name: "empty", script: Hangul, text: "", want: false},
		{name: "syllable", script: Hangul, text: `throw Error("오류")`, want: true},
		{name: "compat_jamo", script: Hangul, text: "ㅋㅋ", want: true},
		{name: "compat_jamo_not_syllable", script: HangulSyllables, text: "ㅋㅋ", want: false},
		{name: "syllable_block_edges", script: HangulSyllables, text: "가힣", want: true},
		{name: "other_script", script: Hangul, text: "日本語", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.script.Contains(tt.text))
		})
	}
}

func TestScript_Runs(t *testing.T) {
	text := `val msg = "잔액이 부족합니다 USDC" // 확인`

	runs := Hangul.Runs(text)
	assert.Equal(t, []string{"잔액이", "부족합니다", "확인"}, runs)
	assert.Equal(t, 3, Hangul.CountRuns(text))

	assert.Empty(t, Hangul.Runs("plain"))
	assert.Equal(t, 0, Hangul.CountRuns("plain"))
	assert.Equal(t, []string{"끝"}, Hangul.Runs("end 끝"))
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		sample     rune
		wantSample bool
		wantError  string
	}{
		{name: "hangul", input: "hangul", wantName: "hangul", sample: '한', wantSample: true},
		{name: "hangul_case_insensitive", input: "HANGUL", wantName: "hangul", sample: 'ㄱ', wantSample: true},
		{name: "syllables", input: "hangul-syllables", wantName: "hangul-syllables", sample: 'ㄱ', wantSample: false},
		{name: "unicode_table", input: "hiragana", wantName: "Hiragana", sample: 'あ', wantSample: true},
		{name: "custom_range", input: "U+AC00-U+D7A3", wantName: "U+AC00-U+D7A3", sample: '값', wantSample: true},
		{name: "custom_single", input: "U+0041", wantName: "U+0041", sample: 'B', wantSample: false},
		{name: "custom_astral", input: "U+1F600-U+1F64F", wantName: "U+1F600-U+1F64F", sample: '😀', wantSample: true},
		{name: "empty", input: "  ", wantError: "script name is empty"},
		{name: "unknown", input: "klingon", wantError: "unknown script"},
		{name: "reversed", input: "U+D7A3-U+AC00", wantError: "reversed"},
		{name: "bad_hex", input: "U+ZZZZ", wantError: "parsing script ranges"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Lookup(tt.input)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
			assert.Equal(t, tt.wantSample, s.Is(tt.sample))
		})
	}
}

func TestParseRanges_MergesOverlaps(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want16  []unicode.Range16
		want32  []unicode.Range32
		latin   int
		inside  []rune
		outside []rune
	}{
		{
			name:    "nested",
			input:   "U+AC00-U+D7A3,U+AC10-U+AC20",
			want16:  []unicode.Range16{{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1}},
			inside:  []rune{0xAC00, 0xAC15, 0xAC21, 0xD7A3},
			outside: []rune{0xABFF, 0xD7A4},
		},
		{
			name:    "adjacent",
			input:   "U+0044-U+0046,U+0041-U+0043",
			want16:  []unicode.Range16{{Lo: 0x41, Hi: 0x46, Stride: 1}},
			latin:   1,
			inside:  []rune{'A', 'D', 'F'},
			outside: []rune{'@', 'G'},
		},
		{
			name:    "crossing_plane",
			input:   "U+FFF0-U+10010,U+FFF5-U+FFF8,U+10005-U+10020",
			want16:  []unicode.Range16{{Lo: 0xFFF0, Hi: 0xFFFF, Stride: 1}},
			want32:  []unicode.Range32{{Lo: 0x10000, Hi: 0x10020, Stride: 1}},
			inside:  []rune{0xFFF0, 0xFFFF, 0x10000, 0x10020},
			outside: []rune{0xFFEF, 0x10021},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := parseRanges(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.want16, table.R16)
			assert.Equal(t, tt.want32, table.R32)
			assert.Equal(t, tt.latin, table.LatinOffset)
			for _, r := range tt.inside {
				assert.True(t, unicode.Is(table, r), "%U should match", r)
			}
			for _, r := range tt.outside {
				assert.False(t, unicode.Is(table, r), "%U should not match", r)
			}
		})
	}
}

func TestLookup_ManyOverlappingRanges(t *testing.T) {
	// enough ranges that unicode.Is switches to binary search
	var parts []string
	for lo := 0xAC00; lo < 0xAC00+60*0x20; lo += 0x20 {
		parts = append(parts, fmt.Sprintf("U+%04X-U+%04X", lo, lo+0x10))
	}
	parts = append(parts, "U+AC00-U+B000")

	s, err := Lookup(strings.Join(parts, ","))
	require.NoError(t, err)

	for r := rune(0xAC00); r <= 0xB000; r++ {
		require.True(t, s.Is(r), "%U should match", r)
	}
	assert.True(t, s.Is(0xB010))
	assert.False(t, s.Is(0xB011))
	assert.True(t, s.Is(0xB360))
	assert.False(t, s.Is(0xB371))
}
