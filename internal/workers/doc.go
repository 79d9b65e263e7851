/*
Package workers sizes worker pools for decoding work.

runtime.NumCPU reports the host's CPUs even inside a container with a CPU
limit. GOMAXPROCS follows the cgroup limit, so pool sizes are derived from it:

	g.SetLimit(workers.ForCPU(8)) // one worker per available CPU, at most 8

Operators can pin the count with DECODE_WORKERS:

	DECODE_WORKERS=2 medialoader load shots/

The override is still capped by the limit passed by the caller.
*/
package workers
