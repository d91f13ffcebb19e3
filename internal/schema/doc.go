// Package schema declares metadata types in YAML, so documents of types the
// binary was not built with can still be decoded with their nesting
// resolved instead of falling back to generic nodes.
//
// # Schema Overview
//
// A schema file has the following structure:
//
//	version: "1"
//	types:
//	  - name: FlowVariable
//	    fields:
//	      - name: name
//	      - name: dataType
//	        type: enum
//	        values: [String, Number, Boolean]
//	      - name: value
//	        type: FlowElementReferenceOrValue
//	  - name: Flow
//	    extends: Metadata
//	    root:
//	      tag: Flow
//	      directory: flows
//	      suffix: flow
//	    fields:
//	      - name: label
//	      - name: variables
//	        type: FlowVariable
//	      - name: processMetadataValues
//	        policy: append
//
// # Field Types
//
//   - "text" (default): scalar text
//   - "enum": scalar text restricted to values
//   - any declared or built-in type name: a nested element of that type
//
// # Policies
//
// Repeated text children either overwrite each other ("overwrite", the
// default) or accumulate into a list ("append"). Policies apply to text and
// enum fields only.
//
// Types may reference each other in any order; Compile builds them in
// dependency order and reports cycles.
package schema
