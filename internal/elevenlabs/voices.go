package elevenlabs

// DefaultVoiceID is Rachel, the voice used when a request names none.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// FallbackVoices returns the static premade catalog served when the
// credential is absent or the upstream listing fails. Listing is
// advisory UI data and must never fail the request.
func FallbackVoices() []Voice {
	return []Voice{
		{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Category: "premade"},
		{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Category: "premade"},
		{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Category: "premade"},
		{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Category: "premade"},
		{ID: "MF3mGyEYCl7XYWbV9V6O", Name: "Elli", Category: "premade"},
		{ID: "TxGEqnHWrfWFTfGW9XjX", Name: "Josh", Category: "premade"},
		{ID: "VR6AewLTigWG4xSOukaG", Name: "Arnold", Category: "premade"},
		{ID: "pNInz6obpgDQGcFmaJgB", Name: "Adam", Category: "premade"},
	}
}
