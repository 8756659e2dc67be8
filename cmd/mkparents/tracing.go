//go:build !windows

package main

import (
	"context"
	"strconv"

	"github.com/containerd/log"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// See https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/ for details on env vars/values.
const (
	otelSDKDisabledEnv                = "OTEL_SDK_DISABLED"
	otelTracesExporterEnv             = "OTEL_TRACES_EXPORTER"
	otelExporterOTLPEndpointEnv       = "OTEL_EXPORTER_OTLP_ENDPOINT"
	otelExporterOTLPTracesEndpointEnv = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	otelExporterOTLPTracesProtocol    = "OTEL_EXPORTER_OTLP_TRACES_PROTOCOL"
	otelExporterOTLPProtocolEnv       = "OTEL_EXPORTER_OTLP_PROTOCOL"
	otelServiceNameEnv                = "OTEL_SERVICE_NAME"
	otelTracesSamplerEnv              = "OTEL_TRACES_SAMPLER"
	otelTracesSamplerArgEnv           = "OTEL_TRACES_SAMPLER_ARG"
)

const defaultServiceName = "mkparents"

var errTracingDisabled = errors.New("tracing disabled")

// otlpExporters maps an OTLP protocol name to the exporter speaking it.
var otlpExporters = map[string]func(context.Context) (sdktrace.SpanExporter, error){
	"grpc": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx)
	},
	"http/protobuf": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		return otlptracehttp.New(ctx)
	},
}

// tracingEnv is the subset of the OTEL_* environment mkparents honors.
type tracingEnv struct {
	protocol    string
	serviceName string
	sampler     string
	samplerArg  string
}

// readTracingEnv reads the tracing settings from getEnv. It returns an error
// wrapping errTracingDisabled when tracing is turned off. mkparents often
// runs privileged, so there is no implicit localhost endpoint: an endpoint
// must be configured for traces to be exported.
func readTracingEnv(getEnv func(string) string) (tracingEnv, error) {
	if v := getEnv(otelSDKDisabledEnv); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return tracingEnv{}, errors.Wrapf(errTracingDisabled, "failed to parse %s=%s", otelSDKDisabledEnv, v)
		}
		if disabled {
			return tracingEnv{}, errors.Wrapf(errTracingDisabled, "%s=%s", otelSDKDisabledEnv, v)
		}
	}

	switch name := getEnv(otelTracesExporterEnv); name {
	case "otlp", "":
	case "none":
		return tracingEnv{}, errors.Wrapf(errTracingDisabled, "trace exports disabled by env %s=%s", otelTracesExporterEnv, name)
	default:
		return tracingEnv{}, errors.Errorf("unsupported tracing exporter %s in env %s", name, otelTracesExporterEnv)
	}

	if getEnv(otelExporterOTLPEndpointEnv) == "" && getEnv(otelExporterOTLPTracesEndpointEnv) == "" {
		return tracingEnv{}, errors.Wrap(errTracingDisabled, "no tracing endpoint configured")
	}

	env := tracingEnv{
		protocol:    getEnv(otelExporterOTLPTracesProtocol),
		serviceName: getEnv(otelServiceNameEnv),
		sampler:     getEnv(otelTracesSamplerEnv),
		samplerArg:  getEnv(otelTracesSamplerArgEnv),
	}
	if env.protocol == "" {
		env.protocol = getEnv(otelExporterOTLPProtocolEnv)
	}
	if env.protocol == "" {
		env.protocol = "http/protobuf"
	}
	if env.serviceName == "" {
		env.serviceName = defaultServiceName
	}
	if _, ok := otlpExporters[env.protocol]; !ok {
		return tracingEnv{}, errors.Errorf("unsupported otlp protocol %s, only grpc and http/protobuf are supported", env.protocol)
	}
	return env, nil
}

func (env tracingEnv) newSampler(ctx context.Context) (sdktrace.Sampler, error) {
	switch env.sampler {
	case "always_on":
		return sdktrace.AlwaysSample(), nil
	case "always_off":
		return sdktrace.NeverSample(), nil
	case "parentbased_always_on", "":
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil
	case "parentbased_always_off":
		return sdktrace.ParentBased(sdktrace.NeverSample()), nil
	case "parentbased_traceidratio":
		ratio := 1.0
		if env.samplerArg != "" {
			f, err := strconv.ParseFloat(env.samplerArg, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse %s=%s", otelTracesSamplerArgEnv, env.samplerArg)
			}
			ratio = f
		}
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	default:
		log.G(ctx).WithField("sampler", env.sampler).Warn("Unsupported tracing sampler, using parentbased_always_on")
		return sdktrace.ParentBased(sdktrace.AlwaysSample()), nil
	}
}

// getTracerProvider returns a tracer provider exporting spans as configured
// by the environment.
func getTracerProvider(ctx context.Context, getEnv func(string) string) (*sdktrace.TracerProvider, error) {
	env, err := readTracingEnv(getEnv)
	if err != nil {
		return nil, err
	}
	sampler, err := env.newSampler(ctx)
	if err != nil {
		return nil, err
	}
	exp, err := otlpExporters[env.protocol](ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create otlp exporter")
	}

	// Spans are exported as they end; a batching processor would lose them
	// when the process exits.
	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithSampler(sampler),
		sdktrace.WithResource(resource.NewSchemaless(semconv.ServiceName(env.serviceName))),
	), nil
}
