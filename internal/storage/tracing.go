package storage

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/AlexTLDR/wedding/internal/storage")
