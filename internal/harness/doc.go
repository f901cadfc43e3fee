// Package harness runs YAML scenarios over recorded exploration sessions.
//
// A scenario declares states with inline token trees, the actions that
// connect them, and comparisons between pairs of states with the results
// they are expected to produce.
//
// # Scenario Format
//
//	name: country_filter
//	description: "Changing one filter halves data similarity"
//	categories:             # optional; or registry: weights.cue
//	  - {id: data, weight: 60}
//	  - {id: visual, weight: 40}
//	states:
//	  - name: start
//	    tree:
//	      name: app
//	      children:
//	        - {name: age, category: data, value: "> 30"}
//	        - {name: country, category: data, value: DE}
//	        - {name: chart, category: visual, importance: 2, value: bar}
//	  - name: fr
//	    tree: ...
//	actions:
//	  - {name: load, to: start}
//	  - {name: filter country, from: start, to: fr}
//	comparisons:
//	  - left: start
//	    right: fr
//	    expect:
//	      similarity: 0.7
//	      per_category: {data: 0.5, visual: 1}
//	      lineup: {data: [0.25, 0.5, 0.25]}
//	      distance: 1
//	      paired: 3
//	paths:
//	  - state: fr
//	    expect: [start, fr]
//
// # Deterministic Testing
//
// Every run stores the session in a fresh in-memory SQLite database with
// sequential session ids and reloads it before comparing, so comparisons
// exercise restored token trees exactly as the CLI sees them. Matched
// trees can be checked against golden files with RunWithGolden.
package harness
