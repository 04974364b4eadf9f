// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包持有这两棵资源树（assets/ 与 data/），并按路径前缀分发访问。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	initialized bool
)

// ErrNotInitialized 在 Init() 之前访问资源时返回
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// Init 绑定资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用。
// 参数通常是根目录 embed.go 中声明的 embed.FS，测试中可以传入 fstest.MapFS。
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 标准化路径分隔符并移除 "./" 前缀（embed.FS 只接受正斜杠）
func normalize(p string) string {
	p = filepath.ToSlash(p)
	return strings.TrimPrefix(p, "./")
}

// route 根据路径前缀选择资源树
func route(p string) (fs.FS, error) {
	if !initialized {
		return nil, ErrNotInitialized
	}
	switch {
	case strings.HasPrefix(p, "assets/") || p == "assets":
		return assetsFS, nil
	case strings.HasPrefix(p, "data/") || p == "data":
		return dataFS, nil
	}
	return nil, fmt.Errorf("unknown resource path prefix: %s (must start with 'assets/' or 'data/')", p)
}

// Open 打开资源文件，路径必须以 "assets/" 或 "data/" 开头
func Open(name string) (fs.File, error) {
	name = normalize(name)
	fsys, err := route(name)
	if err != nil {
		return nil, err
	}
	return fsys.Open(name)
}

// ReadFile 读取资源文件内容，路径必须以 "assets/" 或 "data/" 开头
func ReadFile(name string) ([]byte, error) {
	name = normalize(name)
	fsys, err := route(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(fsys, name)
}

// Sub 返回指定目录的子文件系统
// 静态资源服务器用它把 assets/ 挂载到 URL 根路径。
func Sub(dir string) (fs.FS, error) {
	dir = path.Clean(normalize(dir))
	fsys, err := route(dir)
	if err != nil {
		return nil, err
	}
	return fs.Sub(fsys, dir)
}

// FS 返回按前缀分发的文件系统视图，供只接受 fs.FS 的调用方使用
func FS() fs.FS {
	return routedFS{}
}

type routedFS struct{}

func (routedFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(normalize(name)) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return Open(name)
}
