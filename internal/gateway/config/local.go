package config

import (
	"strings"

	"github.com/spf13/viper"
)

// localArtifactConfig targets the docker-compose MinIO with its default
// credentials unless the environment says otherwise.
func localArtifactConfig(v *viper.Viper) ArtifactConfig {
	return ArtifactConfig{
		Endpoint:  firstNonEmpty(strings.TrimSpace(v.GetString("artifact_minio_endpoint")), strings.TrimSpace(v.GetString("artifact_s3_endpoint")), "minio:9000"),
		Region:    firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_region")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_access_key")), strings.TrimSpace(v.GetString("minio_root_user")), "boxoffice"),
		SecretKey: firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_secret_key")), strings.TrimSpace(v.GetString("minio_root_password")), "boxoffice123"),
		Bucket:    firstNonEmpty(strings.TrimSpace(v.GetString("artifact_s3_bucket")), "boxoffice-snapshots"),
		UseSSL:    false,
	}
}
