package main

import (
	"flag"

	"github.com/observabil/foundry/internal/bootstrap"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/26 19:22
 * @file: main.go
 * @description: foundry engine program
 */

var (
	confDir string
)

func init() {
	flag.StringVar(&confDir, "conf", "conf.d", "conf dir path, e.g. -conf ./conf.d")
}

func main() {
	flag.Parse()

	// Bootstrap 初始化应用
	app, cleanup, err := bootstrap.Bootstrap(confDir, initApp)
	if err != nil {
		panic(err)
	}

	// 启动应用并等待退出信号
	bootstrap.Run(app, cleanup)
}
