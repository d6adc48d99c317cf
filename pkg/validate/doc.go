// Package validate filters lint candidates through an LLM.
//
// Candidates are grouped into batches, each batch becomes one prompt, and
// batches run concurrently up to Config.Concurrency. The response for a batch
// lists a verdict per candidate index:
//
//	{"results":[{"index":0,"valid":false,"reason":"固有名詞"}]}
//
// valid:false removes the issue, valid:true keeps it as confirmed. A batch
// that fails (timeout, client error, unparsable response) or an index with
// no entry follows Config.FailurePolicy: keep marks the issue unverified,
// drop removes it.
//
// Cancelling the context stops new batches from starting and discards the
// in-flight ones. ValidateCandidates then returns the batches that had
// already resolved, with Result.Cancelled set.
//
// Verdicts may be cached across runs with a MemoryCache or a SQLiteCache.
package validate
