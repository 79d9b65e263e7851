// Package pathresolve maps the path strings users type into absolute paths.
//
// A path may be absolute, relative to the working directory, relative to
// the input root, or annotated with a logical root such as
// "renders/**/*.png [output]". Wildcards are expanded recursively, and only
// for still-image patterns; anything else must exist literally.
package pathresolve
