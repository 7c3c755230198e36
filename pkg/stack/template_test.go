package stack

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "serverless.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write template: %v", err)
	}
	return path
}

func TestLoad_FullTemplate(t *testing.T) {
	path := writeTemplate(t, `
service: photos
plugins:
  - serverless-s3-local
  - serverless-plugin-additional-stacks
custom:
  s3:
    port: 9000
    directory: /tmp/buckets
    noStart: true
    buckets:
      - extra
  additionalStacks:
    permanent:
      Resources:
        ArchiveBucket:
          Type: AWS::S3::Bucket
          Properties:
            BucketName: archive
resources:
  Resources:
    LogsBucket:
      Type: AWS::S3::Bucket
      Properties:
        BucketName: logs
    Table:
      Type: AWS::DynamoDB::Table
`)

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if tmpl.Service != "photos" {
		t.Errorf("expected service 'photos', got %q", tmpl.Service)
	}
	if !tmpl.HasAdditionalStacksPlugin() {
		t.Error("expected additional-stacks plugin to be detected")
	}
	if tmpl.Custom.S3.Port == nil || *tmpl.Custom.S3.Port != 9000 {
		t.Errorf("expected custom port 9000, got %v", tmpl.Custom.S3.Port)
	}
	if tmpl.Custom.S3.NoStart == nil || !*tmpl.Custom.S3.NoStart {
		t.Error("expected noStart true")
	}
	if len(tmpl.Custom.S3.Buckets) != 1 || tmpl.Custom.S3.Buckets[0] != "extra" {
		t.Errorf("expected explicit buckets [extra], got %v", tmpl.Custom.S3.Buckets)
	}

	logs, ok := tmpl.Resources.Resources["LogsBucket"]
	if !ok {
		t.Fatal("expected LogsBucket resource")
	}
	name, ok := logs.BucketName()
	if !ok || name != "logs" {
		t.Errorf("expected bucket name 'logs', got %q (ok=%v)", name, ok)
	}

	if len(tmpl.Custom.AdditionalStacks) != 1 {
		t.Fatalf("expected 1 additional stack, got %d", len(tmpl.Custom.AdditionalStacks))
	}
	st := tmpl.Custom.AdditionalStacks[0]
	if st.Name != "permanent" {
		t.Errorf("expected stack name 'permanent', got %q", st.Name)
	}
	if _, ok := st.Resources["ArchiveBucket"]; !ok {
		t.Error("expected ArchiveBucket in additional stack")
	}
}

func TestLoad_StackDeclarationOrderPreserved(t *testing.T) {
	path := writeTemplate(t, `
custom:
  additionalStacks:
    zulu:
      Resources: {}
    alpha:
      Resources: {}
    mike:
      Resources: {}
`)

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := make([]string, 0, len(tmpl.Custom.AdditionalStacks))
	for _, st := range tmpl.Custom.AdditionalStacks {
		got = append(got, st.Name)
	}
	want := []string{"zulu", "alpha", "mike"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stack order %v, got %v", want, got)
		}
	}
}

func TestLoad_MissingSections(t *testing.T) {
	path := writeTemplate(t, `service: bare`)

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tmpl.Resources.Resources) != 0 {
		t.Errorf("expected empty resources, got %v", tmpl.Resources.Resources)
	}
	if tmpl.HasAdditionalStacksPlugin() {
		t.Error("expected no additional-stacks plugin")
	}
}

func TestBucketName_NonLiteral(t *testing.T) {
	path := writeTemplate(t, `
resources:
  Resources:
    RefBucket:
      Type: AWS::S3::Bucket
      Properties:
        BucketName:
          Ref: SomeParameter
    AutoNamed:
      Type: AWS::S3::Bucket
    NotABucket:
      Type: AWS::SQS::Queue
      Properties:
        BucketName: impostor
`)

	tmpl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for key, want := range map[string]bool{
		"RefBucket":  false,
		"AutoNamed":  false,
		"NotABucket": false,
	} {
		res := tmpl.Resources.Resources[key]
		if _, ok := res.BucketName(); ok != want {
			t.Errorf("%s: expected BucketName ok=%v", key, want)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing template")
	}

	path := writeTemplate(t, "service: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
