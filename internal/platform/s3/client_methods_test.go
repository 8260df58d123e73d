package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	client := s3.New(s3.Options{
		Region:       "fsn1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: "fsn1"}, server
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		endpoint  string
		region    string
		accessKey string
		secretKey string
		wantErr   bool
	}{
		{
			name:      "valid credentials",
			endpoint:  "https://fsn1.your-objectstorage.com",
			region:    "fsn1",
			accessKey: "test-access-key",
			secretKey: "test-secret-key",
			wantErr:   false,
		},
		{
			name:      "empty credentials still succeeds at client creation",
			endpoint:  "https://fsn1.your-objectstorage.com",
			region:    "fsn1",
			accessKey: "",
			secretKey: "",
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := NewClient(tt.endpoint, tt.region, tt.accessKey, tt.secretKey)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client == nil {
				t.Fatal("expected non-nil client")
			}
			if client.region != tt.region {
				t.Errorf("expected region %s, got %s", tt.region, client.region)
			}
		})
	}
}

func TestBucketExists(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	exists, err := client.BucketExists(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected bucket to exist")
	}
}

func TestBucketExists_NotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	exists, err := client.BucketExists(context.Background(), "missing-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected bucket to not exist")
	}
}

func TestBucketExists_AccessDenied(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	_, err := client.BucketExists(context.Background(), "forbidden-bucket")
	if err == nil {
		t.Fatal("expected error for access denied")
	}
}

func TestBucketLocation(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">nbg1</LocationConstraint>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	location, err := client.BucketLocation(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "nbg1" {
		t.Errorf("expected location nbg1, got %s", location)
	}
}

func TestBucketLocation_EmptyConstraint(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/"></LocationConstraint>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	location, err := client.BucketLocation(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location != "fsn1" {
		t.Errorf("expected client region fallback fsn1, got %s", location)
	}
}

func TestVersioning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want VersioningState
	}{
		{
			name: "enabled",
			body: `<VersioningConfiguration xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Status>Enabled</Status></VersioningConfiguration>`,
			want: VersioningEnabled,
		},
		{
			name: "suspended",
			body: `<VersioningConfiguration xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Status>Suspended</Status></VersioningConfiguration>`,
			want: VersioningSuspended,
		},
		{
			name: "never enabled",
			body: `<VersioningConfiguration xmlns="http://s3.amazonaws.com/doc/2006-03-01/"/>`,
			want: VersioningDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>`+tt.body)
			})

			client, server := testClient(t, handler)
			defer server.Close()

			state, err := client.Versioning(context.Background(), "test-bucket")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if state != tt.want {
				t.Errorf("expected state %s, got %s", tt.want, state)
			}
		})
	}
}

func TestEnableVersioning(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Value

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		buf, _ := io.ReadAll(r.Body)
		gotBody.Store(string(buf))
		w.WriteHeader(200)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	if err := client.EnableVersioning(context.Background(), "test-bucket"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, _ := gotBody.Load().(string)
	if !strings.Contains(body, "<Status>Enabled</Status>") {
		t.Errorf("expected request body to enable versioning, got: %s", body)
	}
}

func TestEnableVersioning_Error(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 403, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	if err := client.EnableVersioning(context.Background(), "test-bucket"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLifecycleRules(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<LifecycleConfiguration xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Rule>
    <ID>logs-expiry</ID>
    <Status>Enabled</Status>
    <Filter><Prefix>logs/</Prefix></Filter>
    <Expiration><Days>30</Days></Expiration>
  </Rule>
  <Rule>
    <ID>DeletedObjectsRetention60Days</ID>
    <Status>Enabled</Status>
    <Filter><Prefix></Prefix></Filter>
    <NoncurrentVersionExpiration><NoncurrentDays>60</NoncurrentDays></NoncurrentVersionExpiration>
  </Rule>
</LifecycleConfiguration>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	rules, exists, err := client.LifecycleRules(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected lifecycle configuration to exist")
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if aws.ToString(rules[0].ID) != "logs-expiry" {
		t.Errorf("expected first rule logs-expiry, got %s", aws.ToString(rules[0].ID))
	}
}

func TestLifecycleRules_Absent(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 404, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>NoSuchLifecycleConfiguration</Code>
  <Message>The lifecycle configuration does not exist</Message>
  <BucketName>test-bucket</BucketName>
</Error>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	rules, exists, err := client.LifecycleRules(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("expected nil error for absent configuration, got: %v", err)
	}
	if exists {
		t.Error("expected exists=false for absent configuration")
	}
	if rules != nil {
		t.Errorf("expected nil rules, got %v", rules)
	}
}

func TestLifecycleRules_Error(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 403, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	_, _, err := client.LifecycleRules(context.Background(), "test-bucket")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPutLifecycleRules(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Value

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		buf, _ := io.ReadAll(r.Body)
		gotBody.Store(string(buf))
		w.WriteHeader(200)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	rules := []types.LifecycleRule{
		{
			ID:     aws.String("DeletedObjectsRetention60Days"),
			Status: types.ExpirationStatusEnabled,
			NoncurrentVersionExpiration: &types.NoncurrentVersionExpiration{
				NoncurrentDays: aws.Int32(60),
			},
		},
	}
	if err := client.PutLifecycleRules(context.Background(), "test-bucket", rules); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, _ := gotBody.Load().(string)
	if !strings.Contains(body, "<ID>DeletedObjectsRetention60Days</ID>") {
		t.Errorf("expected rule ID in request body, got: %s", body)
	}
	if !strings.Contains(body, "<NoncurrentDays>60</NoncurrentDays>") {
		t.Errorf("expected noncurrent days in request body, got: %s", body)
	}
}

func TestPutLifecycleRules_Error(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 400, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>MalformedXML</Code>
  <Message>The XML you provided was not well-formed</Message>
</Error>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	err := client.PutLifecycleRules(context.Background(), "test-bucket", []types.LifecycleRule{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestListObjectVersions(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<ListVersionsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>test-bucket</Name>
  <IsTruncated>false</IsTruncated>
  <DeleteMarker>
    <Key>docs/gone.txt</Key>
    <VersionId>m1</VersionId>
    <IsLatest>true</IsLatest>
    <LastModified>2026-02-01T10:00:00.000Z</LastModified>
  </DeleteMarker>
  <Version>
    <Key>docs/gone.txt</Key>
    <VersionId>v1</VersionId>
    <IsLatest>false</IsLatest>
    <LastModified>2026-01-15T10:00:00.000Z</LastModified>
    <Size>1024</Size>
    <StorageClass>STANDARD</StorageClass>
  </Version>
</ListVersionsResult>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	markers, versions, err := client.ListObjectVersions(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("expected 1 delete marker, got %d", len(markers))
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 version, got %d", len(versions))
	}
	if aws.ToString(markers[0].Key) != "docs/gone.txt" {
		t.Errorf("unexpected marker key %s", aws.ToString(markers[0].Key))
	}
	if aws.ToInt64(versions[0].Size) != 1024 {
		t.Errorf("expected size 1024, got %d", aws.ToInt64(versions[0].Size))
	}
}

func TestListObjectVersions_Paginated(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<ListVersionsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>test-bucket</Name>
  <IsTruncated>true</IsTruncated>
  <NextKeyMarker>a.txt</NextKeyMarker>
  <NextVersionIdMarker>v1</NextVersionIdMarker>
  <Version>
    <Key>a.txt</Key>
    <VersionId>v1</VersionId>
    <IsLatest>false</IsLatest>
    <LastModified>2026-01-01T00:00:00.000Z</LastModified>
    <Size>1</Size>
    <StorageClass>STANDARD</StorageClass>
  </Version>
</ListVersionsResult>`)
			return
		}
		xmlResponse(w, 200, `<?xml version="1.0" encoding="UTF-8"?>
<ListVersionsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>test-bucket</Name>
  <IsTruncated>false</IsTruncated>
  <Version>
    <Key>b.txt</Key>
    <VersionId>v2</VersionId>
    <IsLatest>false</IsLatest>
    <LastModified>2026-01-02T00:00:00.000Z</LastModified>
    <Size>2</Size>
    <StorageClass>STANDARD</StorageClass>
  </Version>
</ListVersionsResult>`)
	})

	client, server := testClient(t, handler)
	defer server.Close()

	_, versions, err := client.ListObjectVersions(context.Background(), "test-bucket")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 listing calls, got %d", got)
	}
	if len(versions) != 2 {
		t.Errorf("expected versions from both pages, got %d", len(versions))
	}
}
