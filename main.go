package main

import (
	. "blobview/internal"
	"blobview/internal/config"
	"blobview/internal/handler"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"github.com/quic-go/quic-go/http3"
	"net/http"
	"os"
)

func main() {
	// 获取启动参数
	config.Parse()

	// 初始化日志文件
	InitLog()

	// 初始化数据库
	InitDb()

	// 创建图片缩放任务池
	CreateWorkerPool(config.Count)

	// 注册路由
	handler.InitHandle()

	// 监控当前进程的内存和 cpu 使用率
	go RunMonitor()

	// 启动定时刷新缓存
	RunCrontabs(config.CacheRefresh)

	// 启动服务
	if !config.Secure { // 启用 HTTP
		fmt.Println("Server has started on http://127.0.0.1:" + config.Port + " 🚀")
		http.ListenAndServe(":"+config.Port, nil)
	} else {
		fmt.Println("Server has started on https://127.0.0.1:" + config.Port + " 🚀")
		tlsConfig := &tls.Config{
			ClientAuth: tls.RequestClientCert, // 可通过 request.TLS.PeerCertificates 获取客户端证书
		}
		if config.ClientCertVerify { // 设置对客户端证书校验
			tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert
			b, _ := os.ReadFile("./ca.crt")
			tlsConfig.ClientCAs = x509.NewCertPool()
			tlsConfig.ClientCAs.AppendCertsFromPEM(b)
		}
		if config.Http3 { // 启用 HTTP/3
			server := &http3.Server{
				Addr:      ":" + config.Port,
				TLSConfig: tlsConfig,
			}
			server.ListenAndServeTLS(config.ServerCert, config.ServerKey)
		} else { // 启用 HTTPS
			server := &http.Server{
				Addr:      ":" + config.Port,
				TLSConfig: tlsConfig,
			}
			server.ListenAndServeTLS(config.ServerCert, config.ServerKey)
		}
	}
}
