// Package config loads run configuration and rule dictionaries for rewriterc.
//
//	            +-------------+
//	            |   Config    |
//	            | (root, run) |
//	            +------+------+
//	                   |
//	      +------------+------------+
//	      |            |            |
//	+-----+----+ +-----+----+ +-----+----+
//	|   YAML   | |   JSON   | |   HCL    |
//	|  Parser  | |  Parser  | |  Parser  |
//	+----------+ +----------+ +----------+
//	                   |
//	          +--------+--------+
//	          |   Dictionaries  |
//	          | (merged, later  |
//	          |  entries win)   |
//	          +-----------------+
//
// 🎯 Purpose:
//   - Reads the run configuration (root, include/exclude globs, script, passes)
//   - Reads dictionary files in any supported format
//   - Merges dictionaries in listed order, inline rules last
//   - Hands a single rules.Definition to the rules package
//
// 📝 Example (YAML):
//
//	root: src
//	include: ["**/*.kt"]
//	exclude: ["**/build/**"]
//	max_passes: 3
//	dictionaries:
//	  - dict/validation.hcl
//	phrases:
//	  "오류가 발생했습니다": "An error occurred"
//	patterns:
//	  - match: '(\d+)개'
//	    replace: '$1 items'
//
// 📝 Example dictionary (HCL):
//
//	phrases = {
//	  "인증이 필요합니다" = "Authentication is required"
//	}
//	particles = ["는", "은", "를"]
//	pattern {
//	  match   = "(\\d+)회"
//	  replace = "$1 times"
//	}
package config
