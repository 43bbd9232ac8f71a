// Package file stores user configuration in ~/.timetable/config.toml.
//
// Keys are dotted paths ("crawl.rate") and map onto TOML tables. Any key can
// be overridden for a single invocation with an environment variable named by
// EnvName, which is how scheduled jobs tweak the crawler without touching the
// file.
package file
