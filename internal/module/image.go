package module

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg" // 需要导入 "image/jpeg"、"image/gif"、"image/png" 去解码 jpg、gif、png 图片，否则当使用 image.Decode 处理图片文件时，会报 image: unknown format 错误
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrImageReleased = errors.New("image has been released")

type ImageClient struct{}

func (i *ImageClient) Create(width, height int) *Image {
	return &Image{gg.NewContext(width, height)}
}

func (i *ImageClient) Parse(input []byte) (*Image, error) {
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}

	return &Image{gg.NewContextForImage(img)}, nil
}

// Image 使用完成后必须调用 Release
type Image struct {
	c *gg.Context
}

func (i *Image) Width() int {
	return i.c.Width()
}

func (i *Image) Height() int {
	return i.c.Height()
}

// Resample 以双线性插值将图片缩放到 width x height，并绘制到新建的画布上
func (i *Image) Resample(width, height int) (*Image, error) {
	if i.c == nil {
		return nil, ErrImageReleased
	}
	dest := (&ImageClient{}).Create(width, height)
	dest.c.DrawImage(resize.Resize(uint(width), uint(height), i.c.Image(), resize.Bilinear), 0, 0)
	return dest, nil
}

func (i *Image) ToJPG(quality int) ([]byte, error) {
	if i.c == nil {
		return nil, ErrImageReleased
	}
	if quality == 0 {
		quality = 75 // 压缩质量因子，默认为 75
	}
	w := new(bytes.Buffer)
	if err := jpeg.Encode(w, i.c.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (i *Image) ToPNG() ([]byte, error) {
	if i.c == nil {
		return nil, ErrImageReleased
	}
	w := new(bytes.Buffer)
	if err := png.Encode(w, i.c.Image()); err != nil { // 默认压缩级别
		return nil, err
	}
	return w.Bytes(), nil
}

// Release 释放画布，可重复调用
func (i *Image) Release() {
	if i == nil {
		return
	}
	i.c = nil
}

func (i *Image) Released() bool {
	return i.c == nil
}
