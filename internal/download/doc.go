// Package download transfers episode media and show sidecars to the local
// archive. Files are named by display number and a deterministic hash of
// (show id, number, url) so a later filesystem scan can join them back to
// store rows without touching the network.
package download
