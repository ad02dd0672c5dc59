package posterize

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

func isImage(file string) (bool, error) {
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	switch {
	case errors.Is(err, image.ErrFormat):
		return false, nil
	case err != nil:
		// Truncated or corrupt, let the import report it
		return true, nil
	}

	// Already reduced
	return format != "dg5", nil
}

func (p *Posterizer) findFiles(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (p *Posterizer) fileWorker(ctx context.Context, in <-chan string, o Options) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			ok, err := isImage(file)
			if err != nil {
				errc <- err
				return
			}
			if !ok {
				p.logger.Printf("Skipping \"%s\", not a supported image\n", file)
				continue
			}

			sha, err := p.db.Import(file, o)
			if err != nil {
				errc <- err
				return
			}
			p.logger.Printf("Imported \"%s\" as %s (%s, %s)\n", file, sha, o.Mode, o.Dither)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan walks path and imports every image file found into the catalog using
// the given options. Files that are not images are skipped.
func (p *Posterizer) Scan(path string, o Options) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := p.findFiles(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < runtime.GOMAXPROCS(0); i++ {
		errc, err := p.fileWorker(ctx, files, o)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
