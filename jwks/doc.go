/*
Package jwks fetches and caches the public keys Google signs ID tokens with.

# Overview

HTTPFetcher performs one GET against the certificate endpoint
(https://www.googleapis.com/oauth2/v3/certs by default) and returns the key set
together with an expiry computed from the response's Cache-Control max-age.
A response without a usable max-age expires immediately.

Cache owns the current key set. It answers Get for any number of concurrent
callers and refreshes the set when it expires:

  - A ready, unexpired set is returned without I/O.
  - Callers that find the set expired share a single fetch. N concurrent
    callers cause exactly one request to Google.
  - The cache mutex is never held during the fetch.
  - A failed fetch is reported to every caller that waited on it; the next
    Get starts a fresh attempt.
  - A caller giving up (context cancelled) does not cancel the fetch for the
    others.

# Usage

	fetcher, err := jwks.NewHTTPFetcher()
	if err != nil {
	    log.Fatal(err)
	}

	cache, err := jwks.NewCache(fetcher, jwks.WithLogger(slog.Default()))
	if err != nil {
	    log.Fatal(err)
	}

	keys, err := cache.Get(ctx)

# Key order

KeySet keeps its keys sorted by ascending key ID. Tokens whose header names
no kid are tried against each key in that order, so the result is
reproducible.

# Stale keys

WithStaleIfError lets the cache keep serving the last known set for a bounded
window after its expiry when Google cannot be reached. It is off by default.
*/
package jwks
