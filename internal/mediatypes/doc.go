// Package mediatypes provides the shared vocabulary of the media loader:
// source kinds, recognized extensions and error kinds.
//
// This package exists as a dependency-free foundation that can be imported by
// every other package without creating import cycles.
//
// # Source Kinds
//
// A resolved path is classified once into a Kind and the loader switches on it:
//
//	mediatypes.KindImage     // single still image
//	mediatypes.KindDirectory // directory of still images (non-recursive)
//	mediatypes.KindList      // wildcard match of still images
//	mediatypes.KindVideo     // .mp4, .mov
//	mediatypes.KindGIF       // .gif, animated or not
//	mediatypes.KindArchive   // .zip, .7z, .tar, .tar.gz, .tar.bz2
//
// # Errors
//
// ErrNotFound, ErrDecode, ErrEmptyResult and ErrValidation are sentinels.
// PathError carries the offending path and unwraps to both the kind and the
// underlying cause, so errors.Is works for either.
package mediatypes
