package main

import (
	"flag"
	"log"

	"github.com/decker502/basebuilder/pkg/app"
	"github.com/decker502/basebuilder/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细调试日志")
	configPath  = flag.String("config", "", "建造工具配置文件路径（默认使用内置 data/build_tool.yaml）")
	catalogPath = flag.String("catalog", "", "建筑目录文件路径（默认使用内置 data/catalog.yaml）")
)

func main() {
	flag.Parse()

	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		ConfigPath:  *configPath,
		CatalogPath: *catalogPath,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
