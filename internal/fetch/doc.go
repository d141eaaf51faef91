// Package fetch discovers candidate media URLs for a subject through a
// search provider and downloads them under a bounded worker pool. Downloaded
// files are sniffed for their real content type and renamed to the detected
// extension; files of unexpected types are discarded.
package fetch
