package game

import (
	"context"
	"fmt"
	"image"
	"sync"
)

// ImageFuture 异步图片加载的结果
// 完成后要么持有图片，要么持有错误，二者只有一个
type ImageFuture struct {
	id   string
	done chan struct{}
	once sync.Once

	img image.Image
	err error
}

func newImageFuture(id string) *ImageFuture {
	return &ImageFuture{id: id, done: make(chan struct{})}
}

// ID 返回正在加载的资源 ID
func (f *ImageFuture) ID() string { return f.id }

// Done 在加载完成时关闭
func (f *ImageFuture) Done() <-chan struct{} { return f.done }

// Await 等待加载完成或 ctx 结束
func (f *ImageFuture) Await(ctx context.Context) (image.Image, error) {
	select {
	case <-f.done:
		return f.img, f.err
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for image %s: %w", f.id, ctx.Err())
	}
}

// complete 只有第一次调用生效
func (f *ImageFuture) complete(img image.Image, err error) {
	f.once.Do(func() {
		if err != nil {
			f.err = err
		} else {
			f.img = img
		}
		close(f.done)
	})
}
