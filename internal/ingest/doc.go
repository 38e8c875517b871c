// Package ingest reads Alteryx workflow documents (.yxmd, .yxmc, .yxwz)
// into workflow graphs.
//
// Parsing happens in three passes over the XML tree: document metadata,
// node records (including nodes nested inside tool containers), and
// connections. Container membership is assigned after all nodes are known.
// Problems confined to a single record are recorded as diagnostics on the
// graph; problems that make the whole document unusable are returned as
// errors.
package ingest
