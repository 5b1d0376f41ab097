// Package dropingest converts drag-and-drop payloads into queue commands.
//
// A drop arrives as a set of representations (URI list, explorer tree JSON,
// resource descriptors, plain text). Parser folds an ordered list of
// Strategy values over the payload to collect candidate paths, Validate
// filters obvious noise, and Controller shapes the survivors into an addFile
// or addMultipleFiles command plus a feedback line for the user.
//
// Drops that carry attached binary file entries are always rejected: those
// handles originate outside the workspace and cannot be resolved to paths the
// controller may open.
package dropingest
