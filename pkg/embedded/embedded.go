// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的资源。
//
// 以 "assets/" 或 "data/" 开头的路径从嵌入资源读取，其它路径（例如命令行
// 指定的配置文件）直接从磁盘读取。未调用 Init() 时所有路径都从磁盘读取。
package embedded

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	assetsFS    fs.FS
	dataFS      fs.FS
	initialized bool
)

// Init 设置资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(assets, data fs.FS) {
	assetsFS = assets
	dataFS = data
	initialized = true
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// resolve 根据路径前缀选择文件系统，返回 nil 表示使用磁盘
func resolve(path string) (fs.FS, string) {
	// 标准化路径分隔符为正斜杠（embed.FS 使用正斜杠）
	clean := strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !initialized {
		return nil, path
	}
	switch {
	case strings.HasPrefix(clean, "assets/"):
		return assetsFS, clean
	case strings.HasPrefix(clean, "data/"):
		return dataFS, clean
	}
	return nil, path
}

// Open 打开资源文件
func Open(path string) (fs.File, error) {
	fsys, name := resolve(path)
	if fsys == nil {
		return os.Open(name)
	}
	return fsys.Open(name)
}

// ReadFile 读取资源文件内容
func ReadFile(path string) ([]byte, error) {
	fsys, name := resolve(path)
	if fsys == nil {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s from disk: %w", name, err)
		}
		return data, nil
	}
	return fs.ReadFile(fsys, name)
}

// Exists 检查资源文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}
