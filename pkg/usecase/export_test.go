package usecase

// Export unexported functions for testing
var (
	DownloadAssetForTest = downloadAsset
	ProbeBundleForTest   = probeBundle
	RenderAppcastForTest = renderAppcast
	VerifyAppcastForTest = verifyAppcast
	ScratchParentForTest = scratchParent
)
