/*
Package loader turns a path string into a uniform image batch.

Load resolves the path, decides once which kind of source it names, and
dispatches on that kind:

  - a wildcard list or a directory: still images are sorted, capped and
    decoded one by one; files that fail to decode are skipped
  - a video or an animated GIF: frames are sampled to the target rate and
    collected up to the cap
  - an archive: contents are expanded into a scratch directory that is
    removed before Load returns, then loaded as a directory
  - anything else: a single still image

Every successful load yields a non-empty N×H×W×3 batch together with its
dimensions, frame count, display name, source path and frame rate.
*/
package loader
