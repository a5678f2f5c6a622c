package types

import "github.com/m-mizutani/goerr/v2"

// Error kinds. Every fatal error of a run carries exactly one of these tags.
var (
	ErrTagPrecondition  = goerr.NewTag("precondition")
	ErrTagNetwork       = goerr.NewTag("network")
	ErrTagDownload      = goerr.NewTag("download")
	ErrTagParse         = goerr.NewTag("parse")
	ErrTagSourceControl = goerr.NewTag("source_control")
	ErrTagExtract       = goerr.NewTag("extract")
	ErrTagUnknownBundle = goerr.NewTag("unknown_bundle")
	ErrTagManifestRead  = goerr.NewTag("manifest_read")
	ErrTagSigning       = goerr.NewTag("signing")
	ErrTagRender        = goerr.NewTag("render")
	ErrTagPublish       = goerr.NewTag("publish")
	ErrTagInvalidOption = goerr.NewTag("invalid_option")
)
