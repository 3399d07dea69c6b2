package grants

import "errors"

// ErrCrawlInProgress indicates a global crawl is already running.
var ErrCrawlInProgress = errors.New("global crawl already running")
