// Package config loads the sfmeta configuration file.
//
// The file is optional; every setting has a default:
//
//	project_dir: force-app/main/default
//	indent: "    "
//	log:
//	  level: info
//	  file_level: debug
//	  dir: logs
//	schemas:
//	  - schemas/flow.yaml
package config
