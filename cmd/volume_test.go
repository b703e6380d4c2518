package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/feederco/innobackup-showinfo/pkg"
)

func testDigitalOceanClient(t *testing.T, handler http.HandlerFunc) *pkg.DigitalOceanClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := pkg.NewDigitalOceanClient(context.Background(), "test-token", server.URL)
	if err != nil {
		t.Fatal(err)
	}

	return client
}

func TestResolveVolumeSearchRoot(t *testing.T) {
	setupTest(t)

	client := testDigitalOceanClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/volumes/vol-1" {
			http.NotFound(w, r)
			return
		}

		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Incorrect Authorization header: %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"volume": {"id": "vol-1", "name": "mysql-backup-201901232039", "droplet_ids": [42]}}`)
	})

	root, err := resolveVolumeSearchRoot("vol-1", 42, client)
	if err != nil {
		t.Fatal("No error expected", err)
	}

	if root != "/mnt/mysql_backup_201901232039" {
		t.Errorf("Incorrect search root found: %s", root)
	}

	_, err = resolveVolumeSearchRoot("vol-1", 7, client)
	if err == nil || !strings.Contains(err.Error(), "not attached") {
		t.Errorf("Expected not attached error, got %v", err)
	}
}

func TestResolveVolumeSearchRootMissingVolume(t *testing.T) {
	setupTest(t)

	requests := 0
	client := testDigitalOceanClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"id": "not_found", "message": "The resource you were accessing could not be found."}`)
	})

	_, err := resolveVolumeSearchRoot("vol-missing", 42, client)
	if err == nil || !strings.Contains(err.Error(), "vol-missing") {
		t.Errorf("Expected error naming the volume, got %v", err)
	}

	if requests != 1 {
		t.Errorf("A missing volume must not be retried, got %d requests", requests)
	}
}
