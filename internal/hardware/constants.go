package hardware

const (
	ConsumerName = "pulmoaug-controller"

	// Digital output channel names
	ValveChannel = "valve"

	BannerLine = "PulmoAug Controller Initialized"
)
