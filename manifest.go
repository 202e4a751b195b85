package main

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ManifestConfig selects where the image list comes from. The first
// configured source wins: url, then file, then dir.
type ManifestConfig struct {
	URL      string `yaml:"url"`      // HTTP(S) endpoint returning manifest JSON
	CAFile   string `yaml:"ca_file"`  // optional CA bundle for the manifest server
	Username string `yaml:"username"` // optional basic auth
	Password string `yaml:"password"`
	File     string `yaml:"file"` // local manifest JSON
	Dir      string `yaml:"dir"`  // directory of images, scanned in name order
}

// ManifestEntry is one image in the manifest. Manifest order is playback
// order.
type ManifestEntry struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

// LoadManifest acquires the manifest from the first configured source.
func LoadManifest(cfg ManifestConfig) ([]ManifestEntry, error) {
	switch {
	case cfg.URL != "":
		return fetchManifest(cfg)
	case cfg.File != "":
		return readManifest(cfg.File)
	case cfg.Dir != "":
		return scanManifest(cfg.Dir)
	default:
		return nil, fmt.Errorf("manifest needs one of url, file or dir")
	}
}

// fetchManifest downloads the manifest over HTTP(S).
func fetchManifest(cfg ManifestConfig) ([]ManifestEntry, error) {
	httpClient := &http.Client{}

	if cfg.CAFile != "" {
		caCert, err := os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		caCertPool.AppendCertsFromPEM(caCert)
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: caCertPool},
		}
	}

	req, err := http.NewRequest("GET", cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if cfg.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		req.Header.Add("Authorization", "Basic "+auth)
	}

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: %s", response.Status)
	}

	var entries []ManifestEntry
	if err := json.NewDecoder(response.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode manifest JSON: %w", err)
	}
	return entries, nil
}

// readManifest loads the manifest from a local JSON file. Relative image
// paths are taken relative to the manifest file.
func readManifest(path string) ([]ManifestEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var entries []ManifestEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode manifest JSON: %w", err)
	}

	base := filepath.Dir(path)
	for i, e := range entries {
		if !isURL(e.Path) && !filepath.IsAbs(e.Path) {
			entries[i].Path = filepath.Join(base, e.Path)
		}
	}
	return entries, nil
}

// imageExts are the file types the loader can decode.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// scanManifest builds a manifest from the image files in a directory.
// ReadDir returns names sorted, so playback order is name order.
func scanManifest(dir string) ([]ManifestEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan manifest dir: %w", err)
	}

	var entries []ManifestEntry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(item.Name()))] {
			continue
		}
		entries = append(entries, ManifestEntry{
			Path:    filepath.Join(dir, item.Name()),
			Caption: captionFromName(item.Name()),
		})
	}
	return entries, nil
}

// captionFromName derives a caption from a file name:
// "beach_day-2019.jpg" becomes "beach day 2019".
func captionFromName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.Join(strings.Fields(base), " ")
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
