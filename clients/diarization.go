package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maastricht-university/edmo-diareval/interval"
)

// SpkSeg is one speaker turn returned by the diarization service.
type SpkSeg struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// DiarResp is the /diarize response body.
type DiarResp struct {
	Segments    []SpkSeg `json:"segments"`
	NumSpeakers int      `json:"num_speakers"`
}

// maxErrBody caps how much of a failed response is kept in a StatusError.
const maxErrBody = 4096

// StatusError reports a non-200 answer from the diarization service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("diarize: service returned %d %s", e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Diarize uploads the audio at audioPath to baseURL/diarize and returns the
// speaker turns it found. Non-200 answers come back as *StatusError.
func (h *HTTP) Diarize(ctx context.Context, baseURL, audioPath string) (*DiarResp, error) {
	body, contentType, err := audioForm(audioPath)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/diarize"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diarize %s: %w", filepath.Base(audioPath), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	var out DiarResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("diarize decode: %w", err)
	}
	return &out, nil
}

// audioForm builds a multipart body with the audio under the "file" field.
func audioForm(audioPath string) (*bytes.Buffer, string, error) {
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", audioPath, err)
	}
	defer fd.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, fd); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &b, w.FormDataContentType(), nil
}

// DiarizationSource asks a diarization service for the speakers of
// AudioDir/<key>. The two speakers with the most speech become test "0" and
// "1", in label order.
type DiarizationSource struct {
	HTTP         *HTTP
	URL          string
	AudioDir     string
	MergeEpsilon float64
	// CacheDir, when set, receives <key>/spk0.txt and spk1.txt so a
	// DirSource can replay the result later.
	CacheDir string
}

// Lookup diarizes the recording's audio.
func (s *DiarizationSource) Lookup(ctx context.Context, key string) (interval.Set, interval.Set, error) {
	audio := filepath.Join(s.AudioDir, key)
	if _, err := os.Stat(audio); err != nil {
		return interval.Set{}, interval.Set{}, fmt.Errorf("%w: audio %s: %v", ErrNoSource, audio, err)
	}
	resp, err := s.HTTP.Diarize(ctx, s.URL, audio)
	if err != nil {
		return interval.Set{}, interval.Set{}, err
	}
	test0, test1 := SplitSpeakers(resp.Segments, s.MergeEpsilon)
	if s.CacheDir != "" {
		if err := s.cache(key, test0, test1); err != nil {
			return interval.Set{}, interval.Set{}, err
		}
	}
	return test0, test1, nil
}

func (s *DiarizationSource) cache(key string, test0, test1 interval.Set) error {
	dir := filepath.Join(s.CacheDir, strings.TrimSuffix(key, filepath.Ext(key)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, set := range map[string]interval.Set{Speaker0File: test0, Speaker1File: test1} {
		if err := writeListing(filepath.Join(dir, name), set); err != nil {
			return err
		}
	}
	return nil
}

func writeListing(path string, s interval.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := interval.WriteTimestamps(f, s); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// SplitSpeakers groups segments per speaker and keeps the two with the most
// speech. Fewer than two speakers leave the remaining sets empty.
func SplitSpeakers(segs []SpkSeg, eps float64) (interval.Set, interval.Set) {
	raw := map[string][]interval.Interval{}
	for _, sg := range segs {
		raw[sg.Speaker] = append(raw[sg.Speaker], interval.Interval{Start: sg.Start, End: sg.End})
	}
	type spk struct {
		label string
		set   interval.Set
		dur   float64
	}
	all := make([]spk, 0, len(raw))
	for label, ivs := range raw {
		s := interval.NormalizeEpsilon(ivs, eps)
		all = append(all, spk{label: label, set: s, dur: interval.TotalDuration(s)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dur != all[j].dur {
			return all[i].dur > all[j].dur
		}
		return all[i].label < all[j].label
	})
	if len(all) > 2 {
		all = all[:2]
	}
	sort.Slice(all, func(i, j int) bool { return all[i].label < all[j].label })

	var out [2]interval.Set
	for i, s := range all {
		out[i] = s.set
	}
	return out[0], out[1]
}
