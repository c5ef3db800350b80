// File: pkg/logger/echo_logger.go
package logger

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"

	apperrors "github.com/eChanneling-Revamp/payment-service/pkg/errors"
)

// 로그에 값 대신 마스킹 처리할 헤더 목록
var maskedHeaders = map[string]bool{
	"Authorization":       true,
	"X-Payhere-Signature": true,
	"X-Signature":         true,
}

// NewEchoRequestLogger는 Echo 서버를 위한 Request Logger를 생성합니다.
// 요청 본문은 기록하지 않으며 서명/인증 헤더는 마스킹합니다.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	config := middleware.RequestLoggerConfig{
		// 에러도 글로벌 핸들러에게 넘김
		HandleError: true,

		LogLatency:       true,
		LogRemoteIP:      true,
		LogMethod:        true,
		LogURI:           true,
		LogRoutePath:     true,
		LogRequestID:     true,
		LogUserAgent:     true,
		LogStatus:        true,
		LogError:         true,
		LogContentLength: true,
		LogResponseSize:  true,
		LogHeaders:       []string{"Content-Type", "Authorization", "X-PayHere-Signature", "X-Signature"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.String("request.content_length", v.ContentLength),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
				zap.Int64("response.response_size", v.ResponseSize),
			}

			if len(v.Headers) > 0 {
				fields = append(fields, zap.Any("request.headers", maskHeaders(v.Headers)))
			}

			switch {
			case v.Error != nil:
				logger.Error("Request failed", append(fields, zap.Error(v.Error))...)
			case v.Status >= 500:
				logger.Error("Server error", fields...)
			case v.Status >= 400:
				// 4XX 에러는 Warn 레벨로 기록
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	}

	return middleware.RequestLoggerWithConfig(config)
}

// maskHeaders는 민감한 헤더 값을 앞뒤 일부만 남기고 가립니다.
func maskHeaders(in map[string][]string) map[string]string {
	headers := make(map[string]string, len(in))
	for k, values := range in {
		if len(values) == 0 {
			continue
		}
		val := values[0]
		if !maskedHeaders[http.CanonicalHeaderKey(k)] {
			headers[k] = val
			continue
		}
		if len(val) > 15 {
			headers[k] = val[:6] + "..." + val[len(val)-4:]
		} else {
			headers[k] = "[MASKED]"
		}
	}
	return headers
}

// WithEchoLogger Echo에 대한 커스텀 로거와 에러 핸들러를 설정합니다.
// 에러 응답은 {"error": ..., "code": ...} 형태로 통일합니다.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = NewEchoZapLogger(logger)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		he := apperrors.ToHTTPError(err)
		appErr := apperrors.FromHTTPError(err)
		code := he.Code

		var body interface{}
		switch msg := he.Message.(type) {
		case echo.Map, map[string]interface{}:
			body = msg
		default:
			// echo 내장 에러(404, 405, 413 등)
			body = apperrors.Body(http.StatusText(code), apperrors.CodeOf(appErr))
		}

		// 4xx는 Warn, 5xx는 Error 레벨로 기록
		apperrors.LogError(logger, appErr, "HTTP error",
			zap.Int("status", code),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.String("ip", c.RealIP()),
		)

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error("Failed to send error response", zap.Error(err))
		}
	}
}

// EchoZapLogger는 echo.Logger 인터페이스를 구현한 zap 로거 래퍼입니다.
// 시작 메시지 등 echo 내부 로그를 zap으로 전달합니다.
type EchoZapLogger struct {
	Logger *zap.Logger
	prefix string
	level  log.Lvl
}

// NewEchoZapLogger는 Echo의 Logger 인터페이스를 구현한 zap 로거 래퍼를 생성합니다.
func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	return &EchoZapLogger{Logger: logger.Named("echo"), level: log.INFO}
}

func (l *EchoZapLogger) sugar() *zap.SugaredLogger { return l.Logger.Sugar() }

func (l *EchoZapLogger) Output() io.Writer { return &zapWriter{logger: l.Logger} }
func (l *EchoZapLogger) SetOutput(io.Writer) {} // zap에서는 무시됨
func (l *EchoZapLogger) Prefix() string { return l.prefix }
func (l *EchoZapLogger) SetPrefix(p string) { l.prefix = p }
func (l *EchoZapLogger) Level() log.Lvl { return l.level }
func (l *EchoZapLogger) SetLevel(v log.Lvl) { l.level = v }
func (l *EchoZapLogger) SetHeader(string) {} // zap에서는 무시됨
func (l *EchoZapLogger) Print(i ...interface{}) { l.sugar().Info(i...) }
func (l *EchoZapLogger) Debug(i ...interface{}) { l.sugar().Debug(i...) }
func (l *EchoZapLogger) Info(i ...interface{}) { l.sugar().Info(i...) }
func (l *EchoZapLogger) Warn(i ...interface{}) { l.sugar().Warn(i...) }
func (l *EchoZapLogger) Error(i ...interface{}) { l.sugar().Error(i...) }
func (l *EchoZapLogger) Fatal(i ...interface{}) { l.sugar().Fatal(i...) }
func (l *EchoZapLogger) Panic(i ...interface{}) { l.sugar().Panic(i...) }
func (l *EchoZapLogger) Printj(j log.JSON) { l.Logger.Info("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Debugj(j log.JSON) { l.Logger.Debug("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Infoj(j log.JSON) { l.Logger.Info("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Warnj(j log.JSON) { l.Logger.Warn("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Errorj(j log.JSON) { l.Logger.Error("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Fatalj(j log.JSON) { l.Logger.Fatal("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Panicj(j log.JSON) { l.Logger.Panic("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Printf(format string, i ...interface{}) { l.sugar().Infof(format, i...) }
func (l *EchoZapLogger) Debugf(format string, i ...interface{}) { l.sugar().Debugf(format, i...) }
func (l *EchoZapLogger) Infof(format string, i ...interface{}) { l.sugar().Infof(format, i...) }
func (l *EchoZapLogger) Warnf(format string, i ...interface{}) { l.sugar().Warnf(format, i...) }
func (l *EchoZapLogger) Errorf(format string, i ...interface{}) { l.sugar().Errorf(format, i...) }
func (l *EchoZapLogger) Fatalf(format string, i ...interface{}) { l.sugar().Fatalf(format, i...) }
func (l *EchoZapLogger) Panicf(format string, i ...interface{}) { l.sugar().Panicf(format, i...) }

// zapWriter는 io.Writer 인터페이스를 구현한 zap 로거 래퍼입니다.
type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}

var _ echo.Logger = (*EchoZapLogger)(nil)
