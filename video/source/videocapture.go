package source

import (
	"image"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

type VideoCaptureOptions struct {
	// URI is a file, stream URL or device index ("0").
	URI string
	FPS int

	// Interlaced marks every captured frame as interlaced.
	Interlaced bool
}

type VideoCapture struct {
	opts VideoCaptureOptions
	cap  *gocv.VideoCapture
	size image.Point

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
	l       sync.Mutex
}

func NewVideoCapture(opts VideoCaptureOptions) (*VideoCapture, error) {
	cap, err := gocv.OpenVideoCapture(opts.URI)
	if err != nil {
		return nil, err
	}
	if opts.FPS > 0 {
		cap.Set(gocv.VideoCaptureFPS, float64(opts.FPS))
	}
	v := &VideoCapture{
		opts: opts,
		cap:  cap,
		size: image.Point{
			X: int(cap.Get(gocv.VideoCaptureFrameWidth)),
			Y: int(cap.Get(gocv.VideoCaptureFrameHeight)),
		},
		stop: make(chan struct{}),
	}
	log.Infof("Opened video capture %v (%v)", opts.URI, v.size)
	return v, nil
}

func (v *VideoCapture) Size() image.Point {
	return v.size
}

func (v *VideoCapture) Get() <-chan Image {
	c := make(chan Image)
	stopped := make(chan struct{})
	v.l.Lock()
	v.stopped = stopped
	v.l.Unlock()
	go func() {
		defer close(stopped)
		defer close(c)
		// Double buffered so the consumer may hold the last frame while the
		// next one is read.
		mats := [2]gocv.Mat{gocv.NewMat(), gocv.NewMat()}
		defer mats[0].Close()
		defer mats[1].Close()

		for n := 0; ; n++ {
			m := &mats[n%2]
			if ok := v.cap.Read(m); !ok || m.Empty() {
				select {
				case <-v.stop:
					return
				case <-time.After(time.Millisecond):
				}
				log.Debug("Capture read failure.")
				continue
			}
			img := Image{
				Mat:        *m,
				Time:       time.Now(),
				Interlaced: v.opts.Interlaced,
			}
			select {
			case c <- img:
			case <-v.stop:
				return
			}
		}
	}()
	return c
}

func (v *VideoCapture) Close() {
	v.once.Do(func() {
		close(v.stop)
		v.l.Lock()
		stopped := v.stopped
		v.l.Unlock()
		if stopped != nil {
			<-stopped
		}
		v.cap.Close()
	})
}
