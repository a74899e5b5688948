// Package schema provides the display type model: field keys and paths, type
// expressions, type and field definitions, and the YAML file format that
// configures them.
//
// The schema replaces host-language reflection: a front end (hand-written YAML,
// Go code, or the package analyzer) describes each type's shape once and the
// compiler works only from that description.
//
// # File Overview
//
//	version: "1"
//	package: shapes
//	types:
//	  - name: Point
//	    format: "({x}, {y})"
//	    fields:
//	      - name: x
//	        type: int
//	        go_name: X
//	      - name: y
//	        type: int
//	        go_name: Y
//	  - name: Shape
//	    style: snake_case
//	    variants:
//	      - name: Empty
//	      - name: Circle
//	        format: "circle r={radius}"
//	        go_type: Circle
//	        fields:
//	          - name: radius
//	            type: float64
//	            go_name: Radius
//
// # Path Syntax
//
// Field paths are dot-separated keys. A key is a non-negative integer
// (positional) or an identifier (named); a leading "r#" is stripped.
//
//	a
//	a.b.c
//	0.x
package schema
