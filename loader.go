package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/rs/zerolog/log"

	"piframe/notifier"
	"piframe/slideshow"
)

// loaderWorkers bounds concurrent decodes; decoding large JPEGs is
// memory-hungry on a Pi.
const loaderWorkers = 3

// Loader decodes manifest images into the store in the background. A
// failed image settles its entry without pixels, so one bad file costs a
// blank slide, never the show.
type Loader struct {
	store  *slideshow.Store
	notify notifier.Notifier
	client *http.Client
}

// NewLoader creates a loader for the given store.
func NewLoader(store *slideshow.Store, notify notifier.Notifier) *Loader {
	return &Loader{
		store:  store,
		notify: notify,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Run decodes every unsettled entry, loaderWorkers at a time, and returns
// when all are settled or ctx is cancelled.
func (l *Loader) Run(ctx context.Context) {
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < loaderWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				l.load(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < l.store.Len(); i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	log.Info().
		Int("settled", l.store.SettledCount()).
		Int("total", l.store.Len()).
		Msg("loader: done")
}

func (l *Loader) load(ctx context.Context, i int) {
	entry := l.store.Entry(i)
	if entry == nil || entry.Settled() {
		return
	}

	img, err := l.decode(ctx, entry.Source())
	if err != nil {
		log.Warn().Err(err).Str("source", entry.Source()).Msg("loader: image failed")
		entry.Fail(err)
		if l.notify != nil {
			l.notify.LoadError(entry.Source(), err)
		}
		return
	}

	entry.SetImage(img)
	log.Debug().Str("source", entry.Source()).Msg("loader: image ready")
}

// decode reads one image from a local path or http(s) URL.
func (l *Loader) decode(ctx context.Context, source string) (image.Image, error) {
	var r io.ReadCloser
	if isURL(source) {
		req, err := http.NewRequestWithContext(ctx, "GET", source, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch image: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch image: %s", resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open image: %w", err)
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
