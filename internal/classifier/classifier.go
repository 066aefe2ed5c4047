// Package classifier wraps the pre-trained vape/fire model behind a small
// scoring port. The model artifact is loaded once at process start and
// treated as a black box; the core never inspects or mutates it.
package classifier

import "context"

// Classifier scores a feature vector and returns P(anomalous) in [0,1].
// Implementations must be safe for unbounded concurrent use.
type Classifier interface {
	Predict(ctx context.Context, features Features) (float64, error)
}

// Features is the fixed feature vector the model was trained on. Order
// matters: [humidity, pm25, particle_size, volume_spike].
type Features struct {
	Humidity     float64
	PM25         float64
	ParticleSize float64
	VolumeSpike  float64
}

// Vector returns the features in model input order.
func (f Features) Vector() []float32 {
	return []float32{
		float32(f.Humidity),
		float32(f.PM25),
		float32(f.ParticleSize),
		float32(f.VolumeSpike),
	}
}
