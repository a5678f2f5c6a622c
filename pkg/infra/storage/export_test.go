package storage

func NewTestGCS(bucket, prefix string) *GCS {
	return &GCS{bucket: bucket, prefix: prefix}
}

func (x *GCS) ObjectName(name string) string {
	return x.objectName(name)
}

func (x *GCS) StagingName(objName string) string {
	return x.stagingName(objName)
}
