// Package decode turns WeChat .dat attachments back into images and fans the
// work out over a bounded worker pool.
package decode
