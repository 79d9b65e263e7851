/*
Package filesystem provides the filesystem layer of the media loader: logical
root directories and stat/open/readdir with retry logic for NFS stale file
handle errors.

# Logical Roots

Paths may be annotated with a logical root, e.g. "frames/*.png [input]". A
RootResolver maps the names "input", "output" and "temp" to directories and
labels any absolute path with the root that contains it:

	roots := filesystem.NewRootResolver(map[string]string{
	    filesystem.RootInput: "/srv/input",
	})
	name, root, ok := filesystem.SplitAnnotation("clip.mp4 [input]")
	// name = "clip.mp4", root = "input", ok = true

# Retry

StatWithRetry, OpenWithRetry and ReadDirWithRetry retry only on ESTALE
(errno 116) with capped exponential backoff; every other error is returned
immediately. Operations are reported to the Observer installed with
SetObserver, labelled by logical root.
*/
package filesystem
