// Package envelope models the uniform JSON response wrapper every
// endpoint returns: {data, errors, pagination, metadata}.
//
// Decode is deliberately tolerant: an empty body, a non-JSON body, or a
// body of the wrong shape all produce a normal envelope carrying a
// synthetic error (NullContent, JsonError, DeserializationError) with the
// original HTTP status preserved. Deserialization problems are data, not
// exceptions: a 200 with a malformed body must stay distinguishable from
// a 500.
package envelope
