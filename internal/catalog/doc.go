// Package catalog loads immutable subject catalogs and groups them into
// playable domains. A domain pairs a subject list with the media rules used
// when caching and selecting files for it.
package catalog
