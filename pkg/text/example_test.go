package text_test

import (
	"fmt"

	"github.com/walteh/rewriterc/pkg/rules"
	"github.com/walteh/rewriterc/pkg/text"
)

func ExampleConverter_Convert() {
	// Build the rule set
	rs, err := rules.Build(rules.Definition{
		Phrases: map[string]string{
			"오류가 발생했습니다": "An error occurred",
			"오류":         "error",
		},
		Patterns: []rules.Pattern{
			{Match: `(\d+)개`, Replace: `$1 items`},
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Convert some content
	converter := text.NewConverter(rs, text.Options{MaxPasses: 2})
	result := converter.Convert("log.warn(\"오류가 발생했습니다\")\nval limit = \"5개\" // 미번역")

	// Print results
	fmt.Println(result.NewText)
	fmt.Printf("Changed: %v\n", result.Changed)
	fmt.Printf("Replacements: %d\n", result.Replacements)
	for _, span := range result.Residual {
		fmt.Println(span)
	}

	// Output:
	// log.warn("An error occurred")
	// val limit = "5 items" // 미번역
	// Changed: true
	// Replacements: 2
	// Line 2: val limit = "5 items" // 미번역
}

func ExampleConvert() {
	rs, _ := rules.BuildRuleSet(map[string]string{"확인": "confirm"}, nil)

	result := text.Convert("fun doThing(): Int { return 1 }", rs, 1)
	fmt.Printf("Changed: %v\n", result.Changed)

	// Output:
	// Changed: false
}
