package wagon

import "strings"

// KeyMapper computes the object key of a resource under a base directory.
type KeyMapper func(basedir, resourceName string) string

// DefaultKeyMapper removes every "/" from basedir, collapsing nested base
// directories into a single segment, and appends "/" and resourceName.
//
//	DefaultKeyMapper("/repo", "a/b.jar")        // "repo/a/b.jar"
//	DefaultKeyMapper("/maven/releases", "x")    // "mavenreleases/x"
//
// Use WithKeyMapper(TrimKeyMapper) to keep nested base directories intact.
func DefaultKeyMapper(basedir, resourceName string) string {
	return FlattenBaseDir(basedir) + "/" + resourceName
}

// FlattenBaseDir removes every "/" from basedir.
func FlattenBaseDir(basedir string) string {
	return strings.ReplaceAll(basedir, "/", "")
}

// TrimKeyMapper trims leading and trailing slashes from basedir and a
// leading slash from resourceName, preserving nested base directories.
//
//	TrimKeyMapper("/maven/releases/", "/x") // "maven/releases/x"
//	TrimKeyMapper("/", "x")                  // "x"
func TrimKeyMapper(basedir, resourceName string) string {
	base := strings.Trim(basedir, "/")
	name := strings.TrimPrefix(resourceName, "/")
	if base == "" {
		return name
	}
	return base + "/" + name
}
