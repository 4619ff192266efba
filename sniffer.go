package base64load

import "github.com/sasskit/base64load/internal/sniff"

// Sniffer inspects raw content and reports its media type, or "" when
// inspection is inconclusive. Replace the default with WithSniffer.
// Implementations MUST be safe for concurrent use by multiple goroutines.
type Sniffer = sniff.Sniffer

// ContentSniffer is the default Sniffer wired when detection is enabled.
// It recognizes types from magic bytes and treats the generic
// application/octet-stream answer as inconclusive.
type ContentSniffer = sniff.Content
