// Package archive expands zip, 7z and tar (plain, gzip or bzip2) archives
// into a directory so their images can be loaded like any other folder.
package archive
