package res

// AboutContent contains the Markdown content for the About dialog.
// This is maintained separately for easy updates.
const AboutContent = `A multi-channel audio oscilloscope built with Go and Fyne.

**Features:**
- Live traces of every channel, one colour each
- Nearest, maximum and average sample aggregation
- Adjustable amplitude scale and sample window
- WAV, AIFF, MP3 and Ogg Vorbis files, or a generated test tone
- Cursor readout of sample index and amplitude
`
