// Package speech renders upcoming events as short Japanese sentences meant
// to be read aloud by a speech synthesizer.
//
// An announcement is a greeting, one line per event and a closing line:
//
//	こんにちは、今日は3月10日。時刻は8時5分です。
//	9時半、定例。
//	明日の14時、歯医者。
//	以上です。
package speech
