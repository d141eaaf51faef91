// Package mediacache maps subjects to directories of validated media files.
// Misses fetch through the downloader with at most one outstanding fetch per
// subject; a sweeper periodically deletes the whole cache so stale or
// low-quality files age out.
package mediacache
