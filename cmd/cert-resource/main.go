package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/core"
	"cert-resource/internal/logger"
	"cert-resource/internal/notification"
	"cert-resource/internal/resource"
)

func printUsage() {
	fmt.Println(`DNS验证证书自定义资源 (支持 AWS、阿里云、腾讯云、华为云DNS)

用法:
  cert-resource                                   # 作为 Lambda 函数运行 (由运行时启动)
  cert-resource [config.yaml] invoke <event.json> # 本地执行一次自定义资源事件

示例:
  cert-resource invoke create.json
  cert-resource config.yaml invoke delete.json

资源属性:
  DomainName               主域名 (必填)
  HostedZoneId             验证记录所在的DNS区域 (必填)
  SubjectAlternativeNames  备用域名列表
  Tags                     证书标签
  Provider                 证书和DNS使用同一平台: aws (默认), aliyun, tencent
  CertProvider/DNSProvider 证书和DNS使用不同平台，huawei 仅支持DNS

配置文件示例:
  provider: "aws"
  providers:
    aws:
      region: "us-east-1"
    aliyun:
      access_key_id: "xxx"
      access_key_secret: "xxx"
  timing:
    wait_interval: 20s
    wait_attempts: 15
    record_ttl: 60
  webhook:
    enabled: true
    url: "https://example.com/hook"`)
}

// Handler 处理一次自定义资源调用
type Handler interface {
	Handle(ctx context.Context, inv resource.Invocation) core.Result
}

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		runLambda()
		return
	}

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		return
	}

	configPath := os.Getenv(config.EnvConfigPath)
	if args[0] != "invoke" {
		configPath = args[0]
		args = args[1:]
	}

	if len(args) != 2 || args[0] != "invoke" {
		printUsage()
		os.Exit(2)
	}

	os.Exit(runInvoke(configPath, args[1]))
}

// runLambda 以 Lambda 函数运行，响应由 cfn.LambdaWrap 回传
func runLambda() {
	cfg, log := setup(os.Getenv(config.EnvConfigPath))
	defer log.Sync()

	manager := newManager(cfg, log)
	lambda.Start(cfn.LambdaWrap(newCustomResourceFunction(manager, cfg.Timing.ReportMargin)))
}

// runInvoke 本地执行事件文件并打印响应，返回进程退出码
func runInvoke(configPath, eventPath string) int {
	// 本地调试时从 .env 读取凭证
	_ = godotenv.Load()

	cfg, log := setup(configPath)
	defer log.Sync()

	ctx, stop := signalContext(log)
	defer stop()

	fn := newCustomResourceFunction(newManager(cfg, log), cfg.Timing.ReportMargin)
	return invokeFile(ctx, fn, eventPath, os.Stdout, log)
}

// invokeFile 执行事件文件中的一次调用，响应写入 w
func invokeFile(ctx context.Context, fn cfn.CustomResourceFunction, eventPath string, w io.Writer, log *zap.SugaredLogger) int {
	data, err := os.ReadFile(eventPath)
	if err != nil {
		log.Errorf("读取事件文件失败: %v", err)
		return 1
	}

	var event cfn.Event
	if err := json.Unmarshal(data, &event); err != nil {
		log.Errorf("解析事件文件失败: %v", err)
		return 1
	}

	identity, respData, err := fn(ctx, event)

	out, _ := json.MarshalIndent(resource.NewResponse(event, identity, respData, err), "", "  ")
	fmt.Fprintln(w, string(out))

	if err != nil {
		return 1
	}
	return 0
}

func setup(configPath string) (*config.Config, *zap.SugaredLogger) {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	l, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	return cfg, l
}

func newManager(cfg *config.Config, log *zap.SugaredLogger) *core.Manager {
	manager := core.NewManager(cfg, core.NewFactory(cfg, log), log)
	if n := notification.NewWebhookNotifier(cfg.Webhook, log); n != nil {
		manager.SetNotifier(n)
	}
	return manager
}

// newCustomResourceFunction 把事件转换为调用，并在平台超时前预留上报时间
func newCustomResourceFunction(h Handler, margin time.Duration) cfn.CustomResourceFunction {
	return func(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
		ctx, cancel := withReportMargin(ctx, margin)
		defer cancel()

		inv, err := resource.FromEvent(event)
		if err != nil {
			return event.PhysicalResourceID, nil, err
		}

		result := h.Handle(ctx, inv)
		return result.Identity, result.Data, result.Err
	}
}

// withReportMargin 截止时间提前 margin，保证失败结果仍能上报
func withReportMargin(ctx context.Context, margin time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && margin > 0 {
		return context.WithDeadline(ctx, deadline.Add(-margin))
	}
	return context.WithCancel(ctx)
}

// signalContext 收到 SIGINT/SIGTERM 时取消
func signalContext(log *zap.SugaredLogger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Warnf("收到信号 %v，正在取消...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
